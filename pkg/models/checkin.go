// Package models holds the check-in domain types and the enrichment
// transforms applied to a check-in item before it is encoded.
package models

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used throughout the pipeline.
const DateLayout = "2006-01-02"

// Fixed form-response keys written by the enrichment transforms.
const (
	KeyFeelWellRested = "Feel Well-Rested"
	KeyBedtime        = "Bedtime"
	KeyWakeUpTime     = "Wake-up time"
	KeyTotalTimeInBed = "Total Time in Bed"
	KeyBMI            = "BMI"
	KeyBodyFat        = "Body fat %"
	KeyWeightLbs      = "Weight (lbs)"
)

// CheckinFields identifies where a check-in's result belongs in the target
// spreadsheet. Created once per item at ingestion and never mutated.
type CheckinFields struct {
	SpreadsheetID string `json:"spreadsheetId"`
	Date          string `json:"date"`
	Month         string `json:"month"`
	CellReference string `json:"cellReference"`
}

// CheckinItem is one day's submitted habit/health form. FormResponse is
// mutated in place by the enrichment transforms (keys added, never removed).
type CheckinItem struct {
	CheckinFields CheckinFields     `json:"checkinFields"`
	FormResponse  map[string]string `json:"formResponse"`
	GetWeight     bool              `json:"getWeight,omitempty"`
	SleepStart    *int64            `json:"sleepStart,omitempty"`
	SleepEnd      *int64            `json:"sleepEnd,omitempty"`
	TimeZoneID    string            `json:"timeZoneId,omitempty"`
}

// UpdateTimeInBed formats the sleep timestamps into the form response.
// Bedtime and wake-up time are written in the item's time zone when it
// resolves; the total duration requires both timestamps. Each write is a
// no-op when its inputs are missing, never a failure.
func (item *CheckinItem) UpdateTimeInBed() {
	if item.SleepStart != nil {
		if formatted, ok := item.formatLocalTime(*item.SleepStart); ok {
			item.FormResponse[KeyBedtime] = formatted
		}
	}
	if item.SleepEnd != nil {
		if formatted, ok := item.formatLocalTime(*item.SleepEnd); ok {
			item.FormResponse[KeyWakeUpTime] = formatted
		}
	}

	if item.SleepStart != nil && item.SleepEnd != nil {
		totalSeconds := *item.SleepEnd - *item.SleepStart
		item.FormResponse[KeyTotalTimeInBed] = fmt.Sprintf("%d:%02d", totalSeconds/3600, totalSeconds%3600/60)
	} else {
		slog.Warn("Missing sleep start and/or end time",
			"sleep_start", item.SleepStart, "sleep_end", item.SleepEnd)
	}
}

// formatLocalTime renders a Unix timestamp as a clock time (e.g. "9:14:00 PM")
// in the item's time zone. Returns false when the zone is absent or unknown so
// callers leave any caller-supplied value untouched.
func (item *CheckinItem) formatLocalTime(unixTs int64) (string, bool) {
	if item.TimeZoneID == "" {
		slog.Warn("No time zone on check-in item, keeping submitted clock times",
			"date", item.CheckinFields.Date)
		return "", false
	}

	loc, err := time.LoadLocation(item.TimeZoneID)
	if err != nil {
		slog.Error("Error resolving check-in time zone",
			"time_zone", item.TimeZoneID, "timestamp", unixTs, "error", err)
		return "", false
	}

	return time.Unix(unixTs, 0).In(loc).Format("3:04:00 PM"), true
}

// UpdateWeightData copies the weight sample matching the item's date into the
// form response. No-op unless the item asked for weight and a sample matches.
func (item *CheckinItem) UpdateWeightData(weightData []Weight) {
	if !item.GetWeight {
		return
	}

	for _, w := range weightData {
		if w.Date == item.CheckinFields.Date {
			item.FormResponse[KeyBMI] = FormatMeasurement(w.BMI)
			item.FormResponse[KeyBodyFat] = FormatMeasurement(w.Fat)
			item.FormResponse[KeyWeightLbs] = FormatMeasurement(w.Lbs)
			return
		}
	}
}

// ProcessActivityData sums the distances of same-day activities per tracked
// activity type and writes each sum under that type's key. Types with no
// matching activity write nothing.
func (item *CheckinItem) ProcessActivityData(activityData []Activity, trackedActivities []string) {
	if len(activityData) == 0 {
		return
	}

	for _, activityType := range trackedActivities {
		var total float64
		matched := false
		for _, a := range activityData {
			if a.Type == activityType && a.Date == item.CheckinFields.Date {
				total += a.DistanceMiles
				matched = true
			}
		}
		if matched {
			item.FormResponse[activityType] = FormatMeasurement(total)
		}
	}
}

// BuildResultsString renders the item as "<day>,<v1>,...,<vN>" where values
// follow the full checklist's order exactly; keys absent from the form
// response produce empty fields.
func (item *CheckinItem) BuildResultsString(fullChecklist []string) (string, error) {
	date, err := time.Parse(DateLayout, item.CheckinFields.Date)
	if err != nil {
		return "", fmt.Errorf("invalid check-in date %q: %w", item.CheckinFields.Date, err)
	}

	values := make([]string, 0, len(fullChecklist)+1)
	values = append(values, strconv.Itoa(date.Day()))
	for _, key := range fullChecklist {
		values = append(values, item.FormResponse[key])
	}

	return strings.Join(values, ","), nil
}

// FormatMeasurement renders a numeric measurement the way it should appear in
// a results string: shortest decimal form, no trailing zeros.
func FormatMeasurement(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
