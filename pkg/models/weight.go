package models

import "math"

// KilogramsToLbs is the conversion factor applied at the provider boundary.
const KilogramsToLbs = 2.2046

// Weight is one day's body measurements, normalized to pipeline units.
// At most one sample per date is expected per batch.
type Weight struct {
	Date string  `json:"date"`
	BMI  float64 `json:"bmi"`
	Fat  float64 `json:"fat"`
	Lbs  float64 `json:"weight"`
}

// NewWeight normalizes a provider weight log entry: weight converts from
// kilograms to pounds, and all three measurements round to one decimal.
func NewWeight(date string, bmi, fat, kilograms float64) Weight {
	return Weight{
		Date: date,
		BMI:  roundTo(bmi, 1),
		Fat:  roundTo(fat, 1),
		Lbs:  roundTo(kilograms*KilogramsToLbs, 1),
	}
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
