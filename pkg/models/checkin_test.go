package models

import (
	"testing"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestUpdateTimeInBed(t *testing.T) {
	tests := []struct {
		name       string
		sleepStart *int64
		sleepEnd   *int64
		timeZoneID string
		form       map[string]string
		expected   map[string]string
	}{
		{
			name:       "Both timestamps with time zone",
			sleepStart: int64Ptr(1709954057), // 2024-03-08 21:14:17 CST
			sleepEnd:   int64Ptr(1709981828), // 2024-03-09 04:57:08 CST
			timeZoneID: "America/Chicago",
			form:       map[string]string{},
			expected: map[string]string{
				KeyBedtime:        "9:14:00 PM",
				KeyWakeUpTime:     "4:57:00 AM",
				KeyTotalTimeInBed: "7:42",
			},
		},
		{
			name:       "No time zone keeps submitted clock times but still totals",
			sleepStart: int64Ptr(1709954057),
			sleepEnd:   int64Ptr(1709981828),
			timeZoneID: "",
			form: map[string]string{
				KeyBedtime:    "9:14:00 PM",
				KeyWakeUpTime: "4:57:00 PM",
			},
			expected: map[string]string{
				KeyBedtime:        "9:14:00 PM",
				KeyWakeUpTime:     "4:57:00 PM",
				KeyTotalTimeInBed: "7:42",
			},
		},
		{
			name:       "Unknown time zone leaves clock times untouched",
			sleepStart: int64Ptr(1709954057),
			sleepEnd:   int64Ptr(1709981828),
			timeZoneID: "Mars/Olympus_Mons",
			form:       map[string]string{},
			expected: map[string]string{
				KeyTotalTimeInBed: "7:42",
			},
		},
		{
			name:       "Missing end timestamp skips total",
			sleepStart: int64Ptr(1709954057),
			sleepEnd:   nil,
			timeZoneID: "America/Chicago",
			form:       map[string]string{},
			expected: map[string]string{
				KeyBedtime: "9:14:00 PM",
			},
		},
		{
			name:       "No timestamps writes nothing",
			sleepStart: nil,
			sleepEnd:   nil,
			timeZoneID: "America/Chicago",
			form:       map[string]string{},
			expected:   map[string]string{},
		},
		{
			name:       "Total pads minutes to two digits",
			sleepStart: int64Ptr(1709950000),
			sleepEnd:   int64Ptr(1709975500), // 25500s = 7h05m
			timeZoneID: "",
			form:       map[string]string{},
			expected: map[string]string{
				KeyTotalTimeInBed: "7:05",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &CheckinItem{
				CheckinFields: CheckinFields{Date: "2024-03-09"},
				FormResponse:  tt.form,
				SleepStart:    tt.sleepStart,
				SleepEnd:      tt.sleepEnd,
				TimeZoneID:    tt.timeZoneID,
			}

			item.UpdateTimeInBed()

			if len(item.FormResponse) != len(tt.expected) {
				t.Errorf("FormResponse has %d keys, want %d: %v", len(item.FormResponse), len(tt.expected), item.FormResponse)
			}
			for key, want := range tt.expected {
				if got := item.FormResponse[key]; got != want {
					t.Errorf("FormResponse[%q] = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestUpdateWeightData(t *testing.T) {
	weightData := []Weight{
		NewWeight("2024-03-08", 26.14, 22.31, 85.2),
		NewWeight("2024-03-09", 26.14, 22.31, 85.6),
	}

	tests := []struct {
		name      string
		getWeight bool
		date      string
		expected  map[string]string
	}{
		{
			name:      "Matching sample writes all three measurements",
			getWeight: true,
			date:      "2024-03-09",
			expected: map[string]string{
				KeyBMI:       "26.1",
				KeyBodyFat:   "22.3",
				KeyWeightLbs: "188.7",
			},
		},
		{
			name:      "GetWeight false is a no-op",
			getWeight: false,
			date:      "2024-03-09",
			expected:  map[string]string{},
		},
		{
			name:      "No sample for date is a no-op",
			getWeight: true,
			date:      "2024-03-10",
			expected:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &CheckinItem{
				CheckinFields: CheckinFields{Date: tt.date},
				FormResponse:  map[string]string{},
				GetWeight:     tt.getWeight,
			}

			item.UpdateWeightData(weightData)

			if len(item.FormResponse) != len(tt.expected) {
				t.Errorf("FormResponse has %d keys, want %d: %v", len(item.FormResponse), len(tt.expected), item.FormResponse)
			}
			for key, want := range tt.expected {
				if got := item.FormResponse[key]; got != want {
					t.Errorf("FormResponse[%q] = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestProcessActivityData(t *testing.T) {
	activityData := []Activity{
		NewActivity("Morning Hike", "Hike", "Hike", 13840.4, "2024-03-09T14:30:00Z", "2024-03-09T08:30:00Z"),
		NewActivity("Evening Hike", "Hike", "Hike", 4023.4, "2024-03-09T23:30:00Z", "2024-03-09T17:30:00Z"),
		NewActivity("Tempo Run", "Run", "Run", 8046.7, "2024-03-10T13:00:00Z", "2024-03-10T07:00:00Z"),
		NewActivity("Commute", "Ride", "Ride", 40712.0, "2024-03-09T17:00:00Z", "2024-03-09T11:00:00Z"),
	}

	item := &CheckinItem{
		CheckinFields: CheckinFields{Date: "2024-03-09"},
		FormResponse:  map[string]string{},
	}

	item.ProcessActivityData(activityData, []string{"Hike", "Run", "Ride", "Kayaking"})

	// Two same-day hikes sum; the run is a different date; kayaking has no
	// matching activity so its key stays absent.
	if got := item.FormResponse["Hike"]; got != "11.1" {
		t.Errorf("Hike = %q, want %q", got, "11.1")
	}
	if got := item.FormResponse["Ride"]; got != "25.3" {
		t.Errorf("Ride = %q, want %q", got, "25.3")
	}
	if _, ok := item.FormResponse["Run"]; ok {
		t.Errorf("Run should not be written for a different date, got %q", item.FormResponse["Run"])
	}
	if _, ok := item.FormResponse["Kayaking"]; ok {
		t.Errorf("Kayaking should not be written with no matching activity, got %q", item.FormResponse["Kayaking"])
	}
}

func TestProcessActivityDataEmpty(t *testing.T) {
	item := &CheckinItem{
		CheckinFields: CheckinFields{Date: "2024-03-09"},
		FormResponse:  map[string]string{},
	}

	item.ProcessActivityData(nil, []string{"Hike"})

	if len(item.FormResponse) != 0 {
		t.Errorf("FormResponse should stay empty, got %v", item.FormResponse)
	}
}

func TestBuildResultsString(t *testing.T) {
	tests := []struct {
		name          string
		date          string
		form          map[string]string
		fullChecklist []string
		expected      string
		expectErr     bool
	}{
		{
			name:          "All keys present",
			date:          "2024-02-29",
			form:          map[string]string{"Journal": "1", "Read": "1", "Hike": "1"},
			fullChecklist: []string{"Journal", "Read", "Hike"},
			expected:      "29,1,1,1",
		},
		{
			name:          "Missing keys produce empty fields",
			date:          "2024-02-29",
			form:          map[string]string{"Journal": "1", "Hike": "1", "Run": "1"},
			fullChecklist: []string{"Journal", "Read", "Hike", "Swim", "Run"},
			expected:      "29,1,,1,,1",
		},
		{
			name:          "Empty checklist yields day only",
			date:          "2024-03-01",
			form:          map[string]string{"Journal": "1"},
			fullChecklist: []string{},
			expected:      "1",
		},
		{
			name:          "Invalid date errors",
			date:          "not-a-date",
			form:          map[string]string{},
			fullChecklist: []string{"Journal"},
			expectErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &CheckinItem{
				CheckinFields: CheckinFields{Date: tt.date},
				FormResponse:  tt.form,
			}

			result, err := item.BuildResultsString(tt.fullChecklist)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got %q", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("BuildResultsString() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNewWeight(t *testing.T) {
	w := NewWeight("2024-03-09", 26.14, 22.31, 85.6)

	if w.BMI != 26.1 {
		t.Errorf("BMI = %v, want 26.1", w.BMI)
	}
	if w.Fat != 22.3 {
		t.Errorf("Fat = %v, want 22.3", w.Fat)
	}
	if w.Lbs != 188.7 {
		t.Errorf("Lbs = %v, want 188.7", w.Lbs)
	}
}

func TestNewActivity(t *testing.T) {
	a := NewActivity("Morning Hike", "Hike", "Hike", 13840.4, "2024-03-09T14:30:00Z", "2024-03-09T08:30:00Z")

	if a.DistanceMiles != 8.6 {
		t.Errorf("DistanceMiles = %v, want 8.6", a.DistanceMiles)
	}
	if a.Date != "2024-03-09" {
		t.Errorf("Date = %q, want %q", a.Date, "2024-03-09")
	}
}

func TestFormatMeasurement(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{188.7, "188.7"},
		{8.6, "8.6"},
		{8.6 + 2.5, "11.1"},
		{11, "11"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatMeasurement(tt.value); got != tt.expected {
			t.Errorf("FormatMeasurement(%v) = %q, want %q", tt.value, got, tt.expected)
		}
	}
}

func TestChecklistClone(t *testing.T) {
	original := Checklist{
		FullChecklist:     []string{"Journal", "Read"},
		TrackedActivities: []string{"Hike"},
	}

	clone := original.Clone()
	clone.FullChecklist[0] = "Changed"

	if original.FullChecklist[0] != "Journal" {
		t.Errorf("Clone should not share backing arrays, original mutated to %q", original.FullChecklist[0])
	}
}
