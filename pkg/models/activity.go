package models

// MetersPerMile converts provider distances (meters) to miles.
const MetersPerMile = 1609.344

// Activity is one recorded physical activity, normalized to pipeline units.
// Date is the local calendar date the activity started on.
type Activity struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	SportType      string  `json:"sport_type,omitempty"`
	DistanceMiles  float64 `json:"distance"`
	ElapsedTime    int     `json:"elapsed_time,omitempty"`
	MovingTime     int     `json:"moving_time,omitempty"`
	StartDate      string  `json:"start_date,omitempty"`
	StartDateLocal string  `json:"start_date_local"`
	Date           string  `json:"date"`
}

// NewActivity normalizes a provider activity: distance converts from meters
// to miles rounded to two decimals, and the calendar date derives from the
// local start timestamp.
func NewActivity(name, activityType, sportType string, distanceMeters float64, startDate, startDateLocal string) Activity {
	date := startDateLocal
	if len(date) > len(DateLayout) {
		date = date[:len(DateLayout)]
	}

	return Activity{
		Name:           name,
		Type:           activityType,
		SportType:      sportType,
		DistanceMiles:  roundTo(distanceMeters/MetersPerMile, 2),
		StartDate:      startDate,
		StartDateLocal: startDateLocal,
		Date:           date,
	}
}
