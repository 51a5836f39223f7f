package domain

// WeatherReport holds the current conditions for one place, normalized
// from the weather source's current_condition block. Wind speed is in
// mph, matching what the source reports and what users see.
type WeatherReport struct {
	Place        string
	TemperatureC string
	FeelsLikeC   string
	Condition    string
	Humidity     string
	WindSpeedMph string
}
