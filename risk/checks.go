package risk

import (
	"fmt"
	"time"
)

const (
	CodeNoStopOrEntry  = "NO_STOP_OR_ENTRY"
	CodeNoUnits        = "NO_UNITS"
	CodeNoAccount      = "NO_ACCOUNT"
	CodeRiskTooHigh    = "RISK_TOO_HIGH"
	CodeRRTooLow       = "RR_TOO_LOW"
	CodeMaxDailyTrades = "MAX_DAILY_TRADES"
	CodeOutsideSession = "OUTSIDE_SESSION"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	PlannedRisk    float64
	PlannedRiskPct float64
	PlannedRR      float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Has reports whether the decision carries a violation with code.
func (d Decision) Has(code string) bool {
	for _, v := range d.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Evaluate checks a planned trade against the policy. It never blocks on
// its own; callers decide whether a violation is a warning or a refusal.
func Evaluate(p Policy, plan Plan) Decision {
	d := Decision{Allowed: true}

	if plan.Stop <= 0 || plan.Entry <= 0 {
		d.add(CodeNoStopOrEntry, "entry/stop must be set")
		return d
	}
	if plan.Units == 0 {
		d.add(CodeNoUnits, "units must be non-zero")
		return d
	}

	d.PlannedRisk = PlannedRisk(plan.Units, plan.Entry, plan.Stop)
	if plan.TakeProfit > 0 {
		d.PlannedRR = RR(plan.Entry, plan.Stop, plan.TakeProfit)
	}

	pct, ok := RiskPct(d.PlannedRisk, plan.AccountSize)
	if !ok {
		d.add(CodeNoAccount, "account size must be positive")
	} else {
		d.PlannedRiskPct = pct
		if p.RiskWarningLevel > 0 && pct > p.RiskWarningLevel {
			d.add(CodeRiskTooHigh,
				fmt.Sprintf("planned risk %.2f%% exceeds warning level %.2f%%", pct, p.RiskWarningLevel))
		}
	}

	if p.MinRR > 0 && plan.TakeProfit > 0 && d.PlannedRR < p.MinRR {
		d.add(CodeRRTooLow,
			fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
	}

	if p.MaxDailyTrades > 0 && plan.TradesToday >= p.MaxDailyTrades {
		d.add(CodeMaxDailyTrades,
			fmt.Sprintf("trades today %d >= max %d", plan.TradesToday, p.MaxDailyTrades))
	}

	if !plan.Now.IsZero() {
		in, err := InSession(plan.Now, p.SessionStart, p.SessionEnd)
		if err != nil {
			d.add(CodeOutsideSession, err.Error())
		} else if !in {
			d.add(CodeOutsideSession,
				fmt.Sprintf("%s is outside session %s-%s", plan.Now.Format("15:04"), p.SessionStart, p.SessionEnd))
		}
	}

	return d
}

// InSession reports whether now's wall clock falls in [start, end). Sessions
// that wrap midnight ("22:00"-"02:00") are supported. Empty bounds mean the
// session is always open.
func InSession(now time.Time, start, end string) (bool, error) {
	if start == "" || end == "" {
		return true, nil
	}
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false, fmt.Errorf("bad session start %q: %w", start, err)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false, fmt.Errorf("bad session end %q: %w", end, err)
	}

	minute := now.Hour()*60 + now.Minute()
	from := s.Hour()*60 + s.Minute()
	to := e.Hour()*60 + e.Minute()

	if from == to {
		return true, nil
	}
	if from < to {
		return minute >= from && minute < to, nil
	}
	return minute >= from || minute < to, nil
}
