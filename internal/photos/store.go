// Package photos stores one PNG image per bookmark, named after the
// bookmark id.
package photos

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	filePrefix = "bookmark"
	fileExt    = ".png"

	// maxDownloadBytes caps remote photos.
	maxDownloadBytes = 20 << 20
)

var fileNamePattern = regexp.MustCompile(`^bookmark(\d+)\.png$`)

// Store keeps bookmark photos in a single directory.
type Store struct {
	dir        string
	maxWidth   int
	maxHeight  int
	httpClient *http.Client
}

// NewStore creates the directory if needed. maxWidth and maxHeight bound
// saved images; zero disables the bound in that dimension.
func NewStore(dir string, maxWidth, maxHeight int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}

	return &Store{
		dir:       dir,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SetHTTPClient replaces the client used by Fetch.
func (s *Store) SetHTTPClient(c *http.Client) {
	if c != nil {
		s.httpClient = c
	}
}

// Dir returns the photo directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns where the photo of bookmark id lives, whether or not it exists.
func (s *Store) Path(id uint) string {
	return filepath.Join(s.dir, filePrefix+strconv.FormatUint(uint64(id), 10)+fileExt)
}

// Exists reports whether bookmark id has a photo.
func (s *Store) Exists(id uint) bool {
	info, err := os.Stat(s.Path(id))
	return err == nil && info.Mode().IsRegular()
}

// Save scales img down to the configured bounds and writes it as PNG,
// replacing any previous photo atomically.
func (s *Store) Save(id uint, img image.Image) error {
	if img == nil {
		return assetErr("save", id, errors.New("nil image"))
	}
	scaled := Fit(img, s.maxWidth, s.maxHeight)

	tmpFile, err := os.CreateTemp(s.dir, "photo_tmp_")
	if err != nil {
		return assetErr("save", id, err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	if err := png.Encode(tmpFile, scaled); err != nil {
		return assetErr("encode", id, err)
	}
	if err := tmpFile.Close(); err != nil {
		return assetErr("save", id, err)
	}
	if err := os.Rename(tmpPath, s.Path(id)); err != nil {
		return assetErr("save", id, err)
	}
	return nil
}

// SaveEncoded decodes a PNG, JPEG, GIF or WebP stream and saves it.
func (s *Store) SaveEncoded(id uint, r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return assetErr("decode", id, err)
	}
	return s.Save(id, img)
}

// Fetch downloads an image and saves it as the photo of bookmark id.
func (s *Store) Fetch(ctx context.Context, id uint, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return assetErr("fetch", id, err)
	}
	req.Header.Set("User-Agent", "PlaceBook/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return assetErr("fetch", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return assetErr("fetch", id, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return s.SaveEncoded(id, io.LimitReader(resp.Body, maxDownloadBytes))
}

// Load decodes the stored photo.
func (s *Store) Load(id uint) (image.Image, error) {
	f, err := os.Open(s.Path(id))
	if err != nil {
		return nil, assetErr("load", id, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, assetErr("decode", id, err)
	}
	return img, nil
}

// Delete removes the photo. A missing photo is not an error.
func (s *Store) Delete(id uint) error {
	if err := os.Remove(s.Path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return assetErr("delete", id, err)
	}
	return nil
}

// IDs lists the bookmark ids that currently have a photo, ascending.
func (s *Store) IDs() ([]uint, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, assetErr("list", 0, err)
	}

	var ids []uint
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Fit returns img scaled down so that it fits within maxW x maxH, keeping
// its aspect ratio. Images already inside the bounds are returned unchanged.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		if s := float64(maxH) / float64(h); s < scale {
			scale = s
		}
	}
	if scale >= 1.0 {
		return img
	}

	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
