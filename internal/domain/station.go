package domain

// TrainStation is a station known to the platform. Rows are created lazily
// from HAFAS lookup results; IBNR is the stable external identifier.
type TrainStation struct {
	ID        int64   `json:"id"`
	IBNR      int64   `json:"ibnr"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
