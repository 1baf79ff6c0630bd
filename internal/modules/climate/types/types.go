package types

// DatePrecipitation is a (date, prcp) row in store order.
type DatePrecipitation struct {
	Date string
	Prcp *float64
}

// StationActivity is a station with its measurement row count.
type StationActivity struct {
	Station      string
	Observations int
}

// Precipitation maps a date to the precipitation of the last row read for it.
type Precipitation map[string]*float64

type StationList struct {
	Stations []string `json:"stations"`
}

type TemperatureObservation struct {
	Date string   `json:"date"`
	Tobs *float64 `json:"tobs"`
}

// TemperatureSummary holds tobs aggregates; all three are nil when no rows matched.
type TemperatureSummary struct {
	TMIN *float64 `json:"TMIN"`
	TAVG *float64 `json:"TAVG"`
	TMAX *float64 `json:"TMAX"`
}
