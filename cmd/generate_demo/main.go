// Command generate_demo creates a demo database with sample bookmarks in
// every category, each with a generated placeholder photo.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db] [-photos dir]
package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/mrlokans/placebook/internal/category"
	"github.com/mrlokans/placebook/internal/config"
	"github.com/mrlokans/placebook/internal/entrypoint"
	"github.com/mrlokans/placebook/internal/logger"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	defaultDemoPhotosDir    = "./demo/photos"
)

type demoBookmark struct {
	PlaceID  string
	Name     string
	Address  string
	Phone    string
	Notes    string
	Category category.Category
	Lat      float64
	Lng      float64
	Colour   color.RGBA
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	photosDir := flag.String("photos", defaultDemoPhotosDir, "directory for demo photos")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo data to start fresh
	for _, path := range []string{*dbPath, *photosDir} {
		if err := os.RemoveAll(path); err != nil {
			log.Fatalf("Failed to remove %s: %v", path, err)
		}
	}

	cfg := &config.Config{
		Database: config.Database{Path: *dbPath},
		Photos:   config.Photos{Dir: *photosDir, MaxWidth: 640, MaxHeight: 480},
	}
	core, err := entrypoint.OpenCore(cfg, logger.NewNop())
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer core.Close()

	ctx := context.Background()
	for _, d := range demoBookmarks() {
		b := core.Bookmarks.CreateBlank()
		if d.PlaceID != "" {
			id := d.PlaceID
			b.PlaceID = &id
		}
		b.Name = d.Name
		b.Address = d.Address
		b.Phone = d.Phone
		b.Notes = d.Notes
		b.Category = d.Category
		b.Latitude = d.Lat
		b.Longitude = d.Lng

		if _, err := core.Bookmarks.Add(ctx, b); err != nil {
			log.Printf("Failed to save %s: %v", d.Name, err)
			continue
		}
		if err := core.Bookmarks.SetPhoto(ctx, b.ID, placeholder(d.Colour)); err != nil {
			log.Printf("Failed to save photo for %s: %v", d.Name, err)
		}
		log.Printf("Saved: %s (%s)", b.Name, b.Category)
	}

	log.Println("Demo database generated successfully!")
}

func placeholder(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func demoBookmarks() []demoBookmark {
	return []demoBookmark{
		{
			PlaceID:  "demo-cafe-central",
			Name:     "Café Central",
			Address:  "Herrengasse 14, 1010 Wien, Austria",
			Phone:    "+43 1 5333764",
			Notes:    "Apfelstrudel is worth the queue.",
			Category: category.Restaurant,
			Lat:      48.2104,
			Lng:      16.3655,
			Colour:   color.RGBA{R: 176, G: 106, B: 57, A: 255},
		},
		{
			PlaceID:  "demo-shell-a1",
			Name:     "Shell Raststätte",
			Address:  "A1, 3100 St. Pölten, Austria",
			Category: category.Gas,
			Lat:      48.1901,
			Lng:      15.6042,
			Colour:   color.RGBA{R: 237, G: 28, B: 36, A: 255},
		},
		{
			PlaceID:  "demo-hotel-sacher",
			Name:     "Hotel Sacher",
			Address:  "Philharmoniker Str. 4, 1010 Wien, Austria",
			Phone:    "+43 1 514560",
			Category: category.Lodging,
			Lat:      48.2039,
			Lng:      16.3694,
			Colour:   color.RGBA{R: 120, G: 20, B: 40, A: 255},
		},
		{
			PlaceID:  "demo-naschmarkt",
			Name:     "Naschmarkt",
			Address:  "1060 Wien, Austria",
			Notes:    "Saturday flea market next door.",
			Category: category.Shopping,
			Lat:      48.1985,
			Lng:      16.3634,
			Colour:   color.RGBA{R: 46, G: 139, B: 87, A: 255},
		},
		{
			Name:     "Parked here",
			Notes:    "Level 2, row C.",
			Category: category.Other,
			Lat:      48.2082,
			Lng:      16.3738,
			Colour:   color.RGBA{R: 90, G: 90, B: 90, A: 255},
		},
	}
}
