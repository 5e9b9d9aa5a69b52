package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./placebook.db"

	// DefaultPhotosDir holds one bookmark<id>.png per bookmark with a photo
	DefaultPhotosDir = "./photos"

	DefaultPlacesBaseURL = "https://maps.googleapis.com"
)

// OS keyring entry for the places API key.
const (
	KeyringService      = "placebook"
	KeyringPlacesAPIKey = "places_api_key"
)
