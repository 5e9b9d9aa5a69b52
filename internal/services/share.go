package services

import (
	"net/url"
	"strconv"

	"github.com/mrlokans/placebook/internal/entities"
)

const directionsURL = "https://www.google.com/maps/dir/?api=1"

// ShareText builds the subject, message and directions link used when a
// bookmark is shared. Bookmarks with a place id link to that place; manual
// pins link to their coordinates.
func (r *BookmarkRepository) ShareText(b *entities.Bookmark) (subject, text, link string) {
	link = DirectionsURL(b)
	subject = "Sharing " + b.Name
	text = "Check out " + b.Name + " at:\n" + link
	return subject, text, link
}

// DirectionsURL returns a maps directions link to the bookmark.
func DirectionsURL(b *entities.Bookmark) string {
	if b.HasPlace() {
		return directionsURL +
			"&destination=" + url.QueryEscape(b.Name) +
			"&destination_place_id=" + url.QueryEscape(*b.PlaceID)
	}
	coords := strconv.FormatFloat(b.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(b.Longitude, 'f', -1, 64)
	return directionsURL + "&destination=" + url.QueryEscape(coords)
}
