package processor

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ripixel/checkin-server/pkg/models"
)

// DefaultDelimiter joins day tokens in concatenated results.
const DefaultDelimiter = "|"

// ConcatenateResults folds finalized results into one row per month. Months
// group by the caller-supplied month label in first-seen order. Within each
// group, every calendar day from the earliest to the latest result date gets
// a token: the day's full results string when one exists, otherwise the bare
// day number, so gaps stay visible to the fixed-row-per-day spreadsheet.
func ConcatenateResults(results []models.CheckinResult, delimiter string) []models.CheckinResult {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var monthOrder []string
	groups := make(map[string][]models.CheckinResult)
	for _, r := range results {
		if _, ok := groups[r.Month]; !ok {
			monthOrder = append(monthOrder, r.Month)
		}
		groups[r.Month] = append(groups[r.Month], r)
	}

	concatenated := make([]models.CheckinResult, 0, len(monthOrder))
	for _, month := range monthOrder {
		group := groups[month]

		byDate := make(map[string]models.CheckinResult, len(group))
		var startDate, endDate time.Time
		for _, r := range group {
			date, err := time.Parse(models.DateLayout, r.Date)
			if err != nil {
				slog.Error("Skipping result with invalid date in concatenation",
					"date", r.Date, "month", month, "error", err)
				continue
			}
			byDate[r.Date] = r
			if startDate.IsZero() || date.Before(startDate) {
				startDate = date
			}
			if date.After(endDate) {
				endDate = date
			}
		}
		if startDate.IsZero() {
			continue
		}

		var sb strings.Builder
		for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			if sb.Len() > 0 {
				sb.WriteString(delimiter)
			}
			if r, ok := byDate[date.Format(models.DateLayout)]; ok {
				// The results string already carries its day-number prefix.
				sb.WriteString(r.ResultsString)
			} else {
				sb.WriteString(strconv.Itoa(date.Day()))
			}
		}

		first := group[0]
		concatenated = append(concatenated, models.CheckinResult{
			SpreadsheetID: first.SpreadsheetID,
			Date:          first.Date,
			Month:         first.Month,
			CellReference: first.CellReference,
			ResultsString: sb.String(),
		})
	}

	return concatenated
}
