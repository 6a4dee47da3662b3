package risk

import "time"

// Policy carries the user's trading limits. Zero values disable a check.
type Policy struct {
	RiskWarningLevel float64 // percent of account, e.g. 5
	MaxDailyTrades   int
	MinRR            float64

	// Trading session as "HH:MM" in the plan's local time.
	SessionStart string
	SessionEnd   string
}

// Plan is a trade the user is about to register.
type Plan struct {
	Now    time.Time
	Symbol string

	AccountSize float64
	Units       float64

	Entry      float64
	Stop       float64
	TakeProfit float64

	TradesToday int
}
