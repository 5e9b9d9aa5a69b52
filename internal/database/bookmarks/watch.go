package bookmarks

import (
	"context"
	"errors"
	"sync"

	"github.com/mrlokans/placebook/internal/entities"
	"github.com/mrlokans/placebook/internal/logger"
)

// allBookmarks is the subscription key for whole-table observers.
const allBookmarks uint = 0

type subscription struct {
	id   uint
	wake chan struct{}
}

// hub fans out change notifications. A wake channel has room for one pending
// signal, so bursts of writes collapse into a single reload.
type hub struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*subscription]struct{})}
}

func (h *hub) subscribe(id uint) *subscription {
	s := &subscription{id: id, wake: make(chan struct{}, 1)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *hub) unsubscribe(s *subscription) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}

func (h *hub) notify(id uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if s.id != id && s.id != allBookmarks {
			continue
		}
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Observe streams the bookmark with the given id: its current value first,
// then the new value after every committed write to it. A deleted bookmark is
// delivered as nil. The channel is closed once ctx is done.
func (r *Repository) Observe(ctx context.Context, id uint) (<-chan *entities.Bookmark, error) {
	// Subscribe before the initial read so a write racing with it still wakes
	// the observer.
	sub := r.hub.subscribe(id)

	initial, err := r.Get(ctx, id)
	if err != nil {
		r.hub.unsubscribe(sub)
		return nil, err
	}

	out := make(chan *entities.Bookmark)
	go func() {
		defer close(out)
		defer r.hub.unsubscribe(sub)

		current := initial
		for {
			select {
			case out <- current:
			case <-ctx.Done():
				return
			}

			for {
				select {
				case <-sub.wake:
				case <-ctx.Done():
					return
				}
				next, err := r.Get(ctx, id)
				if err == nil || errors.Is(err, ErrNotFound) {
					current = next
					break
				}
				if ctx.Err() != nil {
					return
				}
				// Keep the previous value and wait for the next change.
				r.log.Warn("observer reload failed", logger.Uint("bookmark_id", id), logger.Error(err))
			}
		}
	}()
	return out, nil
}

// ObserveAll streams the full ordered list, re-emitted after every committed
// write to any bookmark.
func (r *Repository) ObserveAll(ctx context.Context) (<-chan []entities.Bookmark, error) {
	sub := r.hub.subscribe(allBookmarks)

	initial, err := r.ListAll(ctx)
	if err != nil {
		r.hub.unsubscribe(sub)
		return nil, err
	}

	out := make(chan []entities.Bookmark)
	go func() {
		defer close(out)
		defer r.hub.unsubscribe(sub)

		current := initial
		for {
			select {
			case out <- current:
			case <-ctx.Done():
				return
			}

			for {
				select {
				case <-sub.wake:
				case <-ctx.Done():
					return
				}
				next, err := r.ListAll(ctx)
				if err == nil {
					current = next
					break
				}
				if ctx.Err() != nil {
					return
				}
				r.log.Warn("observer reload failed", logger.Error(err))
			}
		}
	}()
	return out, nil
}
