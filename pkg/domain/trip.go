package domain

// TripActivity is one scheduled stop within an itinerary day.
type TripActivity struct {
	ActivityID      int64  `json:"activityId,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	Type            string `json:"type,omitempty"`
	Cost            int64  `json:"cost,omitempty"`
	PlaceName       string `json:"placeName,omitempty"`
	Transport       string `json:"transport,omitempty"`
	GoogleMapURL    string `json:"googleMapUrl,omitempty"`
	Memo            string `json:"memo,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// TripItinerary is the schedule of a single day.
type TripItinerary struct {
	Day            int            `json:"day"`
	DayID          int64          `json:"dayId,omitempty"`
	ItineraryDayID int64          `json:"itineraryDayId,omitempty"`
	Activities     []TripActivity `json:"activities"`
}

// ID returns whichever day identifier the backend populated.
func (it TripItinerary) ID() int64 {
	if it.DayID != 0 {
		return it.DayID
	}
	return it.ItineraryDayID
}

// Trip is a generated (or still generating) trip.
type Trip struct {
	TripID      int64           `json:"tripId,omitempty"`
	Title       string          `json:"title,omitempty"`
	Itineraries []TripItinerary `json:"itineraries,omitempty"`
}

// Ready reports whether itinerary generation has produced at least one day.
func (t Trip) Ready() bool {
	return len(t.Itineraries) > 0
}

// Day returns the itinerary for day n, if present.
func (t Trip) Day(n int) (TripItinerary, bool) {
	for _, it := range t.Itineraries {
		if it.Day == n {
			return it, true
		}
	}
	return TripItinerary{}, false
}

// CreateTripRequest is the payload for POST /trips.
type CreateTripRequest struct {
	Title         string   `json:"title"`
	ArrivalDate   string   `json:"arrivalDate"`
	ArrivalTime   string   `json:"arrivalTime"`
	DepartureDate string   `json:"departureDate"`
	DepartureTime string   `json:"departureTime"`
	TravelCity    string   `json:"travelCity"`
	TotalBudget   int64    `json:"totalBudget"`
	TravelTheme   []string `json:"travelTheme"`
	WantedPlace   []string `json:"wantedPlace"`
}

// UpdateTripPlace edits one activity within a day.
type UpdateTripPlace struct {
	ActivityID      int64  `json:"activityId"`
	PlaceName       string `json:"placeName,omitempty"`
	StartTime       string `json:"startTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Cost            int64  `json:"cost,omitempty"`
	Memo            string `json:"memo,omitempty"`
}

// Destination is a city the itinerary generator supports.
type Destination struct {
	Code  string
	City  string
	Label string
}

// Destinations lists the supported cities in display order.
var Destinations = []Destination{
	{"KAOHSIUNG_TW", "Kaohsiung", "Kaohsiung, Taiwan"},
	{"GUAM_US", "Guam", "Guam, USA"},
	{"NAGOYA_JP", "Nagoya", "Nagoya, Japan"},
	{"NHA_TRANG_VN", "Nha Trang", "Nha Trang, Vietnam"},
	{"DA_NANG_VN", "Da Nang", "Da Nang, Vietnam"},
	{"TOKYO_JP", "Tokyo", "Tokyo, Japan"},
	{"LONDON_GB", "London", "London, United Kingdom"},
	{"ROME_IT", "Rome", "Rome, Italy"},
	{"MANILA_PH", "Manila", "Manila, Philippines"},
	{"MACAU_CN", "Macau", "Macau, China"},
	{"BARCELONA_ES", "Barcelona", "Barcelona, Spain"},
	{"BANGKOK_TH", "Bangkok", "Bangkok, Thailand"},
	{"BORACAY_PH", "Boracay", "Boracay, Philippines"},
	{"BOHOL_PH", "Bohol", "Bohol, Philippines"},
	{"SAIPAN_US", "Saipan", "Saipan, USA"},
	{"SAPPORO_JP", "Sapporo", "Sapporo, Japan"},
	{"SHANGHAI_CN", "Shanghai", "Shanghai, China"},
	{"CEBU_PH", "Cebu", "Cebu, Philippines"},
	{"SINGAPORE_SG", "Singapore", "Singapore, Singapore"},
	{"OSAKA_JP", "Osaka", "Osaka, Japan"},
	{"OKINAWA_JP", "Okinawa", "Okinawa, Japan"},
	{"CHIANG_MAI_TH", "Chiang Mai", "Chiang Mai, Thailand"},
	{"KOTA_KINABALU_MY", "Kota Kinabalu", "Kota Kinabalu, Malaysia"},
	{"KUALA_LUMPUR_MY", "Kuala Lumpur", "Kuala Lumpur, Malaysia"},
	{"TAIPEI_TW", "Taipei", "Taipei, Taiwan"},
	{"PARIS_FR", "Paris", "Paris, France"},
	{"PHU_QUOC_VN", "Phu Quoc", "Phu Quoc, Vietnam"},
	{"HANOI_VN", "Hanoi", "Hanoi, Vietnam"},
	{"HONG_KONG_CN", "Hong Kong", "Hong Kong, China"},
	{"FUKUOKA_JP", "Fukuoka", "Fukuoka, Japan"},
}

var destinationByLabel = func() map[string]Destination {
	m := make(map[string]Destination, len(Destinations))
	for _, d := range Destinations {
		m[d.Label] = d
	}
	return m
}()

// DestinationByLabel looks up a destination by its display label.
func DestinationByLabel(label string) (Destination, bool) {
	d, ok := destinationByLabel[label]
	return d, ok
}

// TravelThemes are the selectable trip themes.
var TravelThemes = []string{
	"healing",
	"food",
	"activity",
	"photo-spots",
	"culture-art",
	"sightseeing",
	"shopping",
	"nature",
}

var travelThemeSet = func() map[string]bool {
	m := make(map[string]bool, len(TravelThemes))
	for _, t := range TravelThemes {
		m[t] = true
	}
	return m
}()

// ValidTheme returns true if theme is one of TravelThemes.
func ValidTheme(theme string) bool {
	return travelThemeSet[theme]
}

// ValidDestinationCode returns true if code names a supported city.
func ValidDestinationCode(code string) bool {
	for _, d := range Destinations {
		if d.Code == code {
			return true
		}
	}
	return false
}
