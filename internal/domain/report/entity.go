package report

// Summary is the dashboard KPI block.
type Summary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int64   `json:"total_orders"`
	ActiveClients     int64   `json:"active_clients"`
	AvailableProducts int64   `json:"available_products"`
}

// RankedItem is one entry in a top-N list (units sold or total spend).
type RankedItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MonthlyIncome is one month's revenue bucket, keyed YYYY-MM.
type MonthlyIncome struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// StatusCount is the order status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// Report aggregates everything the reports page renders.
type Report struct {
	Summary       Summary         `json:"summary"`
	TopProducts   []RankedItem    `json:"top_products"`
	TopClients    []RankedItem    `json:"top_clients"`
	MonthlyIncome []MonthlyIncome `json:"monthly_income"`
	StatusSummary []StatusCount   `json:"status_summary"`
}
