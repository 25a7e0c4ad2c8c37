package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuntun/internal/models"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type lockStub bool

func (l lockStub) IsPinSet() (bool, error) { return bool(l), nil }

func TestEpochDay(t *testing.T) {
	assert.Equal(t, int64(0), EpochDay(time.Unix(0, 0)))
	assert.Equal(t, int64(0), EpochDay(time.Date(1970, 1, 1, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, int64(1), EpochDay(time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(-1), EpochDay(time.Date(1969, 12, 31, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(19722), EpochDay(time.Date(2024, 1, 1, 5, 0, 0, 0, time.FixedZone("NPT", 20700))))
}

func TestClientGrowthCountsPerDay(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	clients := []*models.Client{
		{OpeningDate: d1},
		{OpeningDate: d2},
		{OpeningDate: d1.Add(3 * time.Hour)},
	}

	want := []models.ChartEntry{
		{Day: EpochDay(d2), Date: "2024-01-01", Value: decimal.NewFromInt(1)},
		{Day: EpochDay(d1), Date: "2024-01-02", Value: decimal.NewFromInt(2)},
	}
	if diff := cmp.Diff(want, ClientGrowth(clients), decimalEqual); diff != "" {
		t.Errorf("client growth mismatch (-want +got):\n%s", diff)
	}
}

func TestPaymentHistorySumsPerDay(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	payments := []*models.Payment{
		{Date: d, Amount: decimal.RequireFromString("100.25")},
		{Date: d.Add(time.Hour), Amount: decimal.RequireFromString("50")},
		{Date: d.AddDate(0, 0, 2), Amount: decimal.RequireFromString("10")},
	}

	want := []models.ChartEntry{
		{Day: EpochDay(d), Date: "2024-03-05", Value: decimal.RequireFromString("150.25")},
		{Day: EpochDay(d) + 2, Date: "2024-03-07", Value: decimal.RequireFromString("10")},
	}
	if diff := cmp.Diff(want, PaymentHistory(payments), decimalEqual); diff != "" {
		t.Errorf("payment history mismatch (-want +got):\n%s", diff)
	}
}

func TestChartsEmpty(t *testing.T) {
	assert.Empty(t, ClientGrowth(nil))
	assert.Empty(t, PaymentHistory(nil))
}

func TestDashboardSummary(t *testing.T) {
	d := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	clients := newMemClients(
		&models.Client{ID: "1", ClientName: "A", OpeningDate: d},
		&models.Client{ID: "2", ClientName: "B", OpeningDate: d},
	)
	payments := &memPayments{rows: []*models.Payment{
		{ID: "p1", ClientID: "1", Date: d, Amount: decimal.NewFromInt(300)},
		{ID: "p2", ClientID: "2", Date: d, Amount: decimal.NewFromInt(200)},
	}}
	svc := NewDashboardService(clients, payments, lockStub(true))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalClients)
	assert.True(t, sum.TotalPayments.Equal(decimal.NewFromInt(500)))
	assert.True(t, sum.IsAppSecure)
	require.Len(t, sum.ClientGrowthData, 1)
	assert.Equal(t, "2", sum.ClientGrowthData[0].Value.String())
	require.Len(t, sum.PaymentHistoryData, 1)
}

func TestDashboardSummaryPropagatesErrors(t *testing.T) {
	clients := newMemClients()
	clients.err = errBoom
	svc := NewDashboardService(clients, &memPayments{}, lockStub(false))
	_, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

type countedClients struct {
	*memClients
	count int
}

func (c countedClients) Count(context.Context) (int, error) { return c.count, nil }

func TestDashboardSummaryUsesStoredCount(t *testing.T) {
	clients := countedClients{memClients: newMemClients(&models.Client{ID: "1", ClientName: "A"}), count: 7}
	svc := NewDashboardService(clients, &memPayments{}, lockStub(false))

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, sum.TotalClients)
	assert.Len(t, sum.ClientGrowthData, 1)
}
