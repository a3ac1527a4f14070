package models

// Place is a pub returned by the places provider
type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Rating           float64  `json:"rating,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	Photos           []string `json:"photos,omitempty"`
	DistanceMiles    float64  `json:"distance_miles,omitempty"`
}
