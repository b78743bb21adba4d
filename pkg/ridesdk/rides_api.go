package ridesdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GetRideTypes lists the ride types available at a location.
// GET /v1/ridetypes
func (rc *RidesClient) GetRideTypes(ctx context.Context, p RideTypesParams) (*http.Response, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(p.Latitude))
	query.Set("lng", formatCoord(p.Longitude))
	if p.RideType != "" {
		query.Set("ride_type", p.RideType)
	}

	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/ridetypes", query, nil)
}

// GetPickupTimeEstimates returns driver ETAs at a location.
// GET /v1/eta
func (rc *RidesClient) GetPickupTimeEstimates(ctx context.Context, p ETAParams) (*http.Response, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(p.Latitude))
	query.Set("lng", formatCoord(p.Longitude))
	if p.RideType != "" {
		query.Set("ride_type", p.RideType)
	}

	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/eta", query, nil)
}

// GetCostEstimates returns fare estimates for a prospective trip.
// GET /v1/cost
func (rc *RidesClient) GetCostEstimates(ctx context.Context, p CostEstimatesParams) (*http.Response, error) {
	query := url.Values{}
	query.Set("start_lat", formatCoord(p.StartLatitude))
	query.Set("start_lng", formatCoord(p.StartLongitude))
	if p.EndLatitude != nil {
		query.Set("end_lat", formatCoord(*p.EndLatitude))
	}
	if p.EndLongitude != nil {
		query.Set("end_lng", formatCoord(*p.EndLongitude))
	}
	if p.RideType != "" {
		query.Set("ride_type", p.RideType)
	}

	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/cost", query, nil)
}

// GetDrivers returns the locations of drivers near a point.
// GET /v1/drivers
func (rc *RidesClient) GetDrivers(ctx context.Context, p DriversParams) (*http.Response, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(p.Latitude))
	query.Set("lng", formatCoord(p.Longitude))

	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/drivers", query, nil)
}

// RequestRide requests a ride on behalf of the user.
// POST /v1/rides
func (rc *RidesClient) RequestRide(ctx context.Context, req RideRequest) (*http.Response, error) {
	return rc.doAPIRequest(ctx, http.MethodPost, "/v1/rides", nil, req)
}

// GetRideDetails returns the status of an ongoing or completed ride.
// GET /v1/rides/{id}
func (rc *RidesClient) GetRideDetails(ctx context.Context, rideID string) (*http.Response, error) {
	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/rides/"+url.PathEscape(rideID), nil, nil)
}

// CancelRide cancels an ongoing ride. A non-empty confirmation token
// acknowledges the cancellation fee after a previous attempt was rejected
// with one.
// POST /v1/rides/{id}/cancel
func (rc *RidesClient) CancelRide(ctx context.Context, rideID, cancelConfirmationToken string) (*http.Response, error) {
	var body any
	if cancelConfirmationToken != "" {
		body = map[string]string{"cancel_confirmation_token": cancelConfirmationToken}
	}

	return rc.doAPIRequest(ctx, http.MethodPost, "/v1/rides/"+url.PathEscape(rideID)+"/cancel", nil, body)
}

// RateTipRide rates and optionally tips a completed ride.
// PUT /v1/rides/{id}/rating
func (rc *RidesClient) RateTipRide(ctx context.Context, rideID string, rating RideRating) (*http.Response, error) {
	return rc.doAPIRequest(ctx, http.MethodPut, "/v1/rides/"+url.PathEscape(rideID)+"/rating", nil, rating)
}

// GetRideReceipt returns the receipt of a completed ride.
// GET /v1/rides/{id}/receipt
func (rc *RidesClient) GetRideReceipt(ctx context.Context, rideID string) (*http.Response, error) {
	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/rides/"+url.PathEscape(rideID)+"/receipt", nil, nil)
}

// GetUserRideHistory lists the user's rides within a time range.
// GET /v1/rides
func (rc *RidesClient) GetUserRideHistory(ctx context.Context, p RideHistoryParams) (*http.Response, error) {
	query := url.Values{}
	query.Set("start_time", p.StartTime.UTC().Format(time.RFC3339))
	if !p.EndTime.IsZero() {
		query.Set("end_time", p.EndTime.UTC().Format(time.RFC3339))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}

	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/rides", query, nil)
}

// GetUserProfile returns the authenticated user's profile.
// GET /v1/profile
func (rc *RidesClient) GetUserProfile(ctx context.Context) (*http.Response, error) {
	return rc.doAPIRequest(ctx, http.MethodGet, "/v1/profile", nil, nil)
}

// formatCoord serializes a coordinate without trailing zeros.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
