package types

// Measurement mirrors a row of the measurement table. Date is YYYY-MM-DD.
type Measurement struct {
	Station string   `json:"station"`
	Date    string   `json:"date"`
	Prcp    *float64 `json:"prcp"`
	Tobs    float64  `json:"tobs"`
}

// Precipitation is one {"<date>": prcp} entry.
type Precipitation map[string]*float64

// TemperatureObservation is one row of the most-active station's recent window.
type TemperatureObservation struct {
	Date      string  `json:"Date"`
	StationID string  `json:"Station ID"`
	Tobs      float64 `json:"tobs"`
}

// TemperatureStats holds aggregates over a date range. Fields are nil when no
// rows matched.
type TemperatureStats struct {
	Tmin *float64 `json:"Tmin"`
	Tmax *float64 `json:"Tmax"`
	Tavg *float64 `json:"Tavg"`
}
