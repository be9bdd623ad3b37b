package shared

const (
	ProviderFitbit = "fitbit"
	ProviderStrava = "strava"
)
