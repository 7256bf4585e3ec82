package contracts

import "time"

// AlertRecord marks that an opportunity for (ticker, strategy) was
// alerted on a given date. The engine reads these purely for
// duplicate suppression; delivery lives with the alerting collaborator.
// Price, Reason and Metrics are carried for the alerting collaborator,
// never read back by the engine.
type AlertRecord struct {
	Ticker   string       `json:"ticker"`
	Strategy Strategy     `json:"strategy"`
	Date     time.Time    `json:"date"`
	Price    float64      `json:"price,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Metrics  *Opportunity `json:"metrics,omitempty"`
}

// NewAlertRecord builds the record persisted for an emitted opportunity.
func NewAlertRecord(opp Opportunity) *AlertRecord {
	o := opp
	return &AlertRecord{
		Ticker:   opp.Ticker,
		Strategy: opp.Strategy,
		Date:     opp.Date,
		Price:    opp.Price,
		Reason:   opp.Rationale,
		Metrics:  &o,
	}
}

// ScreeningRun summarizes one orchestrator pass for one strategy,
// recorded for operational reporting.
type ScreeningRun struct {
	Date               time.Time     `json:"date"`
	Strategy           Strategy      `json:"strategy"`
	TickersScanned     int           `json:"tickers_scanned"`
	OpportunitiesFound int           `json:"opportunities_found"`
	Suppressed         int           `json:"suppressed"`
	Duration           time.Duration `json:"duration"`
}
