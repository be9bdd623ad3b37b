// Package fitbit queries the Fitbit API for weight log data.
package fitbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	httputil "github.com/ripixel/checkin-server/pkg/infrastructure/http"
	"github.com/ripixel/checkin-server/pkg/infrastructure/oauth"
	"github.com/ripixel/checkin-server/pkg/models"
)

const baseURL = "https://api.fitbit.com"

// Client fetches weight samples for a date range. Requests authenticate
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
		logger:     logger.With("component", "fitbit"),
	}
}

// weightLogResponse mirrors the provider's weight log payload. Weights arrive
// in kilograms and are normalized at this boundary.
type weightLogResponse struct {
	Weight []struct {
		BMI    float64 `json:"bmi"`
		Date   string  `json:"date"`
		Fat    float64 `json:"fat"`
		Weight float64 `json:"weight"`
	} `json:"weight"`
}

// GetWeightData fetches weight samples between startDate and endDate
// inclusive (exact-day boundaries). Any failure degrades to an empty result
// set so the caller's skip policy still runs deterministically.
func (c *Client) GetWeightData(ctx context.Context, startDate, endDate string) []models.Weight {
	url := fmt.Sprintf("%s/1/user/-/body/log/weight/date/%s/%s.json", c.baseURL, startDate, endDate)
	logger := c.logger.With("start", startDate, "end", endDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error("Error building Fitbit weight request", "error", err)
		return []models.Weight{}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Error retrieving weight data", "url", url, "error", err)
		return []models.Weight{}
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		logger.Error("Unsuccessful Fitbit API call", "error", err)
		return []models.Weight{}
	}

	var data weightLogResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Error("Error decoding weight data", "error", err)
		return []models.Weight{}
	}

	samples := make([]models.Weight, 0, len(data.Weight))
	for _, w := range data.Weight {
		samples = append(samples, models.NewWeight(w.Date, w.BMI, w.Fat, w.Weight))
	}

	logger.Debug("Retrieved weight data", "samples", len(samples))
	return samples
}
