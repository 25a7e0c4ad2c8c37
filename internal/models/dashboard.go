package models

import "github.com/shopspring/decimal"

// ChartEntry is one bar of a day-bucketed chart. Day is the UTC epoch day.
type ChartEntry struct {
	Day   int64           `json:"day"`
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type DashboardSummary struct {
	TotalClients       int             `json:"total_clients"`
	TotalPayments      decimal.Decimal `json:"total_payments"`
	IsAppSecure        bool            `json:"is_app_secure"`
	ClientGrowthData   []ChartEntry    `json:"client_growth_data"`
	PaymentHistoryData []ChartEntry    `json:"payment_history_data"`
}
