package places

import "github.com/mrlokans/placebook/internal/category"

// Place holds the details the places service returned for one place id.
type Place struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types"`
	Photos    []Photo  `json:"photos,omitempty"`
}

// Photo references an image hosted by the places service.
type Photo struct {
	Reference string `json:"reference"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// PrimaryType is the first type the service listed. Only the first type is
// used for classification.
func (p *Place) PrimaryType() category.PlaceType {
	if len(p.Types) == 0 {
		return category.PlaceTypeUnknown
	}
	t, _ := category.ParsePlaceType(p.Types[0])
	return t
}

// FirstPhoto returns the first photo reference, if any.
func (p *Place) FirstPhoto() (Photo, bool) {
	if len(p.Photos) == 0 {
		return Photo{}, false
	}
	return p.Photos[0], true
}
