package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/placebook/internal/entities"
)

func TestShareText_WithPlaceID(t *testing.T) {
	repo := NewBookmarkRepository(nil, nil, nil, nil)
	b := &entities.Bookmark{Name: "Cafe Luna", PlaceID: strPtr("ChIJ123"), Latitude: 40, Longitude: -74}

	subject, text, link := repo.ShareText(b)
	assert.Equal(t, "Sharing Cafe Luna", subject)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=Cafe+Luna&destination_place_id=ChIJ123", link)
	assert.Equal(t, "Check out Cafe Luna at:\n"+link, text)
}

func TestShareText_Coordinates(t *testing.T) {
	repo := NewBookmarkRepository(nil, nil, nil, nil)
	b := &entities.Bookmark{Name: "Pin", Latitude: 40.5, Longitude: -74.25}

	_, _, link := repo.ShareText(b)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=40.5%2C-74.25", link)

	empty := &entities.Bookmark{Name: "Pin", PlaceID: strPtr("")}
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=0%2C0", DirectionsURL(empty))
}
