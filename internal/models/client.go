package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a subscriber of the business.
type Client struct {
	ID            string          `json:"id"`
	SerialNumber  string          `json:"serial_number"`
	ClientName    string          `json:"client_name"`
	AccountNumber string          `json:"account_number"`
	OpeningDate   time.Time       `json:"opening_date"`
	ClosingDate   *time.Time      `json:"closing_date,omitempty"`
	PlanPrice     decimal.Decimal `json:"plan_price"`
	Mobile        string          `json:"mobile"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}
