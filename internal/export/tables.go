package export

import (
	"salespipeline/internal/forecast"
	"salespipeline/internal/risk"
)

func ForecastTable(res forecast.Result) Table {
	t := Table{
		Sheet:   "Forecast",
		Columns: []string{"month", "quarter", "forecasted_revenue", "deal_count", "deals"},
	}
	for _, b := range res.Buckets {
		t.Rows = append(t.Rows, []any{b.Month, b.Quarter, b.Revenue, len(b.DealIDs), b.DealIDs})
	}
	return t
}

func StalledTable(entries []risk.StalledEntry) Table {
	t := Table{
		Sheet:   "Stalled Deals",
		Columns: []string{"deal_id", "company_name", "owner", "stage", "value", "last_stage_change", "days_stalled", "risk_score"},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{e.DealID, e.CompanyName, e.Owner, e.Stage, e.Value, e.LastStageChange, e.DaysStalled, e.RiskScore})
	}
	return t
}
