package domain

// Market describes one tradable market from the upstream trading clock data.
type Market struct {
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	UTC       UTCOffset `json:"utc"`
	RestDays  []RestDay `json:"restDays"`
}

// RestDay is a single non-trading date in the market's local calendar.
type RestDay struct {
	Day string `json:"day"`
}

// Market status values, ordered by display priority.
const (
	StatusTrading = "trading"
	StatusClosed  = "closed"
	StatusRest    = "rest"
)

// MarketStatus is the computed trading state of one market at a point in time.
type MarketStatus struct {
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	UTC       float64 `json:"utc"`
	LocalTime string  `json:"local_time"`
	LocalDate string  `json:"local_date"`
	Status    string  `json:"status"`
	IsTrading bool    `json:"is_trading"`
}
