// Package strava queries the Strava API for athlete activities.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httputil "github.com/ripixel/checkin-server/pkg/infrastructure/http"
	"github.com/ripixel/checkin-server/pkg/infrastructure/oauth"
	"github.com/ripixel/checkin-server/pkg/models"
)

const baseURL = "https://www.strava.com/api/v3"

// Client fetches activity samples for a date range. Requests authenticate
// through the OAuth transport, which refreshes the credential on demand.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(source oauth.TokenSource, logger *slog.Logger) *Client {
	return &Client{
		httpClient: oauth.NewHTTPClient(source),
		baseURL:    baseURL,
		logger:     logger.With("component", "strava"),
	}
}

// athleteActivity mirrors the provider's activity payload. Distances arrive
// in meters and are normalized at this boundary.
type athleteActivity struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	SportType      string  `json:"sport_type"`
	Distance       float64 `json:"distance"`
	StartDate      string  `json:"start_date"`
	StartDateLocal string  `json:"start_date_local"`
}

// GetActivityData fetches activities between startDate and endDate, inclusive
// of the full end day (23:59:59). Any failure degrades to an empty result set
// so the caller's skip policy still runs deterministically.
func (c *Client) GetActivityData(ctx context.Context, startDate, endDate string) []models.Activity {
	logger := c.logger.With("start", startDate, "end", endDate)

	after, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		logger.Error("Invalid activity range start date", "error", err)
		return []models.Activity{}
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		logger.Error("Invalid activity range end date", "error", err)
		return []models.Activity{}
	}
	before := end.AddDate(0, 0, 1).Add(-time.Second)

	url := fmt.Sprintf("%s/athlete/activities?before=%d&after=%d", c.baseURL, before.Unix(), after.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error("Error building Strava activities request", "error", err)
		return []models.Activity{}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Error retrieving Strava activities", "url", url, "error", err)
		return []models.Activity{}
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		logger.Error("Unsuccessful Strava API call", "error", err)
		return []models.Activity{}
	}

	var data []athleteActivity
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Error("Error decoding Strava activities", "error", err)
		return []models.Activity{}
	}

	activities := make([]models.Activity, 0, len(data))
	for _, a := range data {
		activities = append(activities, models.NewActivity(a.Name, a.Type, a.SportType, a.Distance, a.StartDate, a.StartDateLocal))
	}

	logger.Debug("Retrieved Strava activities", "activities", len(activities))
	return activities
}
