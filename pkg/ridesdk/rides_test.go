package ridesdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// apiCapture records the last API request a fake platform server received.
type apiCapture struct {
	refreshCalls int
	method       string
	path         string
	query        url.Values
	header       http.Header
	body         []byte
}

// newPlatformServer returns a fake platform that serves the token endpoint
// and answers every other path with the given status and body.
func newPlatformServer(t *testing.T, status int, responseBody string) (*httptest.Server, *apiCapture) {
	t.Helper()

	captured := &apiCapture{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			captured.refreshCalls++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(freshTokenBody))
			return
		}

		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.Query()
		captured.header = r.Header.Clone()
		captured.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, captured
}

func staleCredential() *Credential {
	return &Credential{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		AccessToken:  "stale-access",
		RefreshToken: "stale-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
		Scopes:       []string{"public", "profile"},
		GrantType:    GrantAuthorizationCode,
	}
}

func freshCredential() *Credential {
	return &Credential{
		ClientID:    "client-1",
		AccessToken: "fresh-enough",
		ExpiresAt:   time.Now().Add(time.Hour),
		GrantType:   GrantClientCredentials,
	}
}

func newRidesClient(t *testing.T, baseURL string, cred *Credential) *RidesClient {
	t.Helper()

	client := NewClient(baseURL)
	session, err := NewSession(cred)
	require.NoError(t, err)
	rides, err := NewRidesClient(client, session)
	require.NoError(t, err)
	return rides
}

func TestNewRidesClientValidation(t *testing.T) {
	t.Parallel()

	client := NewClient("https://api.example.com")

	_, err := NewRidesClient(client, nil)
	var stateErr *IllegalStateError
	require.ErrorAs(t, err, &stateErr)

	session, err := NewSession(freshCredential())
	require.NoError(t, err)
	_, err = NewRidesClient(nil, session)
	require.ErrorAs(t, err, &stateErr)
}

func TestRidesClientRefreshesStaleCredentialOnce(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusOK, `{"id": "user-1"}`)
	rides := newRidesClient(t, srv.URL, staleCredential())
	original := rides.Session()

	resp, err := rides.GetUserProfile(context.Background())
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, 1, captured.refreshCalls)
	require.Equal(t, "Bearer fresh-access", captured.header.Get("Authorization"))

	// The session was swapped wholesale, the original is untouched.
	require.NotSame(t, original, rides.Session())
	require.Equal(t, "stale-access", original.Credential().AccessToken)
	require.Equal(t, "fresh-access", rides.Session().Credential().AccessToken)

	// A second call runs on the refreshed credential without another refresh.
	resp, err = rides.GetUserProfile(context.Background())
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 1, captured.refreshCalls)
}

func TestRidesClientSkipsRefreshWhenFresh(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusOK, `{"id": "user-1"}`)
	rides := newRidesClient(t, srv.URL, freshCredential())

	resp, err := rides.GetUserProfile(context.Background())
	require.NoError(t, err)
	resp.Body.Close()

	require.Zero(t, captured.refreshCalls)
	require.Equal(t, "Bearer fresh-enough", captured.header.Get("Authorization"))
}

func TestRidesClientSetsRequestID(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusOK, `{}`)
	rides := newRidesClient(t, srv.URL, freshCredential())

	resp, err := rides.GetUserProfile(context.Background())
	require.NoError(t, err)
	resp.Body.Close()
	first := captured.header.Get("X-Request-ID")
	require.Regexp(t, regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`), first)

	resp, err = rides.GetUserProfile(context.Background())
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEqual(t, first, captured.header.Get("X-Request-ID"))
}

func TestRideQueryEncoding(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusOK, `{}`)
	rides := newRidesClient(t, srv.URL, freshCredential())
	ctx := context.Background()

	t.Run("ride types", func(t *testing.T) {
		resp, err := rides.GetRideTypes(ctx, RideTypesParams{
			Latitude:  37.7763,
			Longitude: -122.3918,
			RideType:  "lyft_line",
		})
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.MethodGet, captured.method)
		require.Equal(t, "/v1/ridetypes", captured.path)
		require.Equal(t, "37.7763", captured.query.Get("lat"))
		require.Equal(t, "-122.3918", captured.query.Get("lng"))
		require.Equal(t, "lyft_line", captured.query.Get("ride_type"))
	})

	t.Run("cost estimate without destination", func(t *testing.T) {
		resp, err := rides.GetCostEstimates(ctx, CostEstimatesParams{
			StartLatitude:  37.7763,
			StartLongitude: -122.3918,
		})
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "/v1/cost", captured.path)
		require.False(t, captured.query.Has("end_lat"))
		require.False(t, captured.query.Has("end_lng"))
	})

	t.Run("cost estimate with destination", func(t *testing.T) {
		endLat, endLng := 37.7972, -122.4533
		resp, err := rides.GetCostEstimates(ctx, CostEstimatesParams{
			StartLatitude:  37.7763,
			StartLongitude: -122.3918,
			EndLatitude:    &endLat,
			EndLongitude:   &endLng,
		})
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "37.7972", captured.query.Get("end_lat"))
		require.Equal(t, "-122.4533", captured.query.Get("end_lng"))
	})

	t.Run("ride history bounds", func(t *testing.T) {
		start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

		resp, err := rides.GetUserRideHistory(ctx, RideHistoryParams{
			StartTime: start,
			EndTime:   end,
			Limit:     10,
		})
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "/v1/rides", captured.path)
		require.Equal(t, "2026-08-01T00:00:00Z", captured.query.Get("start_time"))
		require.Equal(t, "2026-08-22T00:00:00Z", captured.query.Get("end_time"))
		require.Equal(t, "10", captured.query.Get("limit"))
	})
}

func TestRequestRideBody(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusCreated, `{"ride_id": "ride-1"}`)
	rides := newRidesClient(t, srv.URL, freshCredential())

	resp, err := rides.RequestRide(context.Background(), RideRequest{
		RideType: "lyft",
		Origin:   Location{Latitude: 37.7763, Longitude: -122.3918, Address: "185 Berry St"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "2xx responses pass through raw")
	resp.Body.Close()

	require.Equal(t, http.MethodPost, captured.method)
	require.Equal(t, "/v1/rides", captured.path)
	require.Equal(t, "application/json", captured.header.Get("Content-Type"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(captured.body, &sent))
	require.Equal(t, "lyft", sent["ride_type"])
	require.NotContains(t, sent, "destination")
	origin := sent["origin"].(map[string]any)
	require.Equal(t, "185 Berry St", origin["address"])
}

func TestCancelRide(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusNoContent, "")
	rides := newRidesClient(t, srv.URL, freshCredential())
	ctx := context.Background()

	t.Run("without confirmation token", func(t *testing.T) {
		resp, err := rides.CancelRide(ctx, "ride-1", "")
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, "/v1/rides/ride-1/cancel", captured.path)
		require.Empty(t, captured.body)
	})

	t.Run("with confirmation token", func(t *testing.T) {
		resp, err := rides.CancelRide(ctx, "ride-1", "confirm-1")
		require.NoError(t, err)
		resp.Body.Close()

		var sent map[string]string
		require.NoError(t, json.Unmarshal(captured.body, &sent))
		require.Equal(t, "confirm-1", sent["cancel_confirmation_token"])
	})
}

func TestRateTipRide(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusNoContent, "")
	rides := newRidesClient(t, srv.URL, freshCredential())

	resp, err := rides.RateTipRide(context.Background(), "ride-1", RideRating{
		Rating:      5,
		TipAmount:   200,
		TipCurrency: "USD",
		Feedback:    "smooth ride",
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.MethodPut, captured.method)
	require.Equal(t, "/v1/rides/ride-1/rating", captured.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(captured.body, &sent))
	require.EqualValues(t, 5, sent["rating"])
	require.EqualValues(t, 200, sent["tip.amount"])
	require.Equal(t, "USD", sent["tip.currency"])
}

func TestRidesClientAdaptsErrors(t *testing.T) {
	t.Parallel()

	srv, _ := newPlatformServer(t, http.StatusBadRequest,
		`{"error": "invalid_params", "error_detail": [{"lat": "lat is required"}]}`)
	rides := newRidesClient(t, srv.URL, freshCredential())

	_, err := rides.GetDrivers(context.Background(), DriversParams{Latitude: 37.7763, Longitude: -122.3918})

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, "invalid_params", clientErr.Code)
	require.Len(t, clientErr.Details, 1)
}

func TestRidesClientWithLimiter(t *testing.T) {
	t.Parallel()

	srv, captured := newPlatformServer(t, http.StatusOK, `{}`)
	rides := newRidesClient(t, srv.URL, freshCredential())
	rides.client.Limiter = rate.NewLimiter(rate.Inf, 1)

	resp, err := rides.GetRideDetails(context.Background(), "ride-1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "/v1/rides/ride-1", captured.path)
}

func TestRevokeOAuthCredentialKeepsSession(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/revoke_refresh_token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	rides := newRidesClient(t, srv.URL, freshCredential())
	session := rides.Session()

	require.NoError(t, rides.RevokeOAuthCredential(context.Background()))
	require.Same(t, session, rides.Session(), "revocation does not clear the held session")
}
