package domain

// PlaceMarker is a map coordinate.
type PlaceMarker struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is a place search result.
type Place struct {
	GooglePlaceID string      `json:"googlePlaceId"`
	GoogleMapURL  string      `json:"googleMapUrl"`
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	Marker        PlaceMarker `json:"marker"`
}
