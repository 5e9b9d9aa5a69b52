// Package interfaces documents the core abstractions used throughout the
// application and holds compile-time checks that the concrete types
// implement them.
//
// # Storage
//
//   - RecordStore: durable bookmark rows (internal/services/interfaces.go),
//     implemented by database/bookmarks.Repository
//   - PhotoStore: one image per bookmark id (internal/services/interfaces.go),
//     implemented by photos.Store
//   - UserStore: users for local auth (internal/auth/service.go)
//
// # Consumers of the bookmark repository
//
// Each consumer declares the narrow slice of services.BookmarkRepository it
// needs:
//
//   - http.BookmarkService, http.PhotoService, http.PlaceBookmarker
//   - tasks.Bookmarks for background jobs
//   - scheduler.PhotoPruner for the orphan photo sweep
//   - exporters.BookmarkLister and importers.BookmarkAdder
//
// # External services
//
//   - tasks.PlaceSource and http.PlaceLookup: the places web service
//     (internal/places), cached through places.Cache in Redis or memory
//
// # Adding a New Consumer
//
//  1. Declare the interface next to the consumer, listing only the methods
//     it calls:
//
//     type BookmarkCounter interface{ Count(ctx context.Context) (int64, error) }
//
//  2. Add a check to checks.go:
//
//     var _ mypkg.BookmarkCounter = (*services.BookmarkRepository)(nil)
//
//  3. Pass the repository in from internal/entrypoint.
package interfaces
