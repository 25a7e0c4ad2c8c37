package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID       string          `json:"id"`
	ClientID string          `json:"client_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Title    string          `json:"title"`
	Notes    string          `json:"notes"`
}

// ClientDues is the last known payment of a client, used by the dues digest.
type ClientDues struct {
	ClientID    string     `json:"client_id"`
	ClientName  string     `json:"client_name"`
	Mobile      string     `json:"mobile"`
	OpeningDate time.Time  `json:"opening_date"`
	LastPayment *time.Time `json:"last_payment,omitempty"`
}
