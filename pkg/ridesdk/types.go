package ridesdk

import "time"

// Location is a geographic point with an optional street address.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Address   string  `json:"address,omitempty"`
}

// RideTypesParams filters the ride types available at a location.
type RideTypesParams struct {
	Latitude  float64
	Longitude float64

	// RideType restricts the result to a single type, e.g. "lyft_line".
	RideType string
}

// ETAParams filters pickup time estimates at a location.
type ETAParams struct {
	Latitude  float64
	Longitude float64
	RideType  string
}

// CostEstimatesParams describes a prospective trip for cost estimation.
// Destination coordinates are optional; without them the estimate covers
// only the base fare at the start location.
type CostEstimatesParams struct {
	StartLatitude  float64
	StartLongitude float64
	EndLatitude    *float64
	EndLongitude   *float64
	RideType       string
}

// DriversParams locates nearby drivers.
type DriversParams struct {
	Latitude  float64
	Longitude float64
}

// RideRequest describes a new ride to be requested on behalf of the user.
type RideRequest struct {
	RideType    string    `json:"ride_type,omitempty"`
	Origin      Location  `json:"origin"`
	Destination *Location `json:"destination,omitempty"`

	// PrimetimeConfirmationToken acknowledges surge pricing when the
	// previous request was rejected with a primetime error.
	PrimetimeConfirmationToken string `json:"primetime_confirmation_token,omitempty"`
}

// RideRating rates and optionally tips a completed ride.
type RideRating struct {
	Rating      int    `json:"rating"`
	TipAmount   int    `json:"tip.amount,omitempty"`
	TipCurrency string `json:"tip.currency,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
}

// RideHistoryParams bounds a ride history query. EndTime and Limit are
// optional; a zero EndTime or Limit is omitted from the request.
type RideHistoryParams struct {
	StartTime time.Time
	EndTime   time.Time
	Limit     int
}
