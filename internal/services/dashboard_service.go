package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tuntun/internal/models"
	"tuntun/internal/repositories"
)

const dayMillis = 86_400_000

// EpochDay is the number of whole UTC days between the Unix epoch and t.
func EpochDay(t time.Time) int64 {
	ms := t.UnixMilli()
	day := ms / dayMillis
	if ms%dayMillis < 0 {
		day--
	}
	return day
}

func dayDate(day int64) string {
	return time.UnixMilli(day * dayMillis).UTC().Format("2006-01-02")
}

// LockState reports whether the app is protected by a PIN.
type LockState interface {
	IsPinSet() (bool, error)
}

type DashboardService struct {
	Clients  repositories.ClientRepository
	Payments repositories.PaymentRepository
	lock     LockState
}

func NewDashboardService(clients repositories.ClientRepository, payments repositories.PaymentRepository, lock LockState) *DashboardService {
	return &DashboardService{Clients: clients, Payments: payments, lock: lock}
}

func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	count, err := s.Clients.Count(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	secure, err := s.lock.IsPinSet()
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return &models.DashboardSummary{
		TotalClients:       count,
		TotalPayments:      total,
		IsAppSecure:        secure,
		ClientGrowthData:   ClientGrowth(clients),
		PaymentHistoryData: PaymentHistory(payments),
	}, nil
}

// ClientGrowth counts clients per opening day.
func ClientGrowth(clients []*models.Client) []models.ChartEntry {
	buckets := map[int64]decimal.Decimal{}
	for _, c := range clients {
		day := EpochDay(c.OpeningDate)
		buckets[day] = buckets[day].Add(decimal.NewFromInt(1))
	}
	return chart(buckets)
}

// PaymentHistory sums payment amounts per payment day.
func PaymentHistory(payments []*models.Payment) []models.ChartEntry {
	buckets := map[int64]decimal.Decimal{}
	for _, p := range payments {
		day := EpochDay(p.Date)
		buckets[day] = buckets[day].Add(p.Amount)
	}
	return chart(buckets)
}

func chart(buckets map[int64]decimal.Decimal) []models.ChartEntry {
	entries := make([]models.ChartEntry, 0, len(buckets))
	for day, v := range buckets {
		entries = append(entries, models.ChartEntry{Day: day, Date: dayDate(day), Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	return entries
}
