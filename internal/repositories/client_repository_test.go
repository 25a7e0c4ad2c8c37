package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tuntun/internal/models"
)

var clientCols = []string{"id", "serial_number", "client_name", "account_number", "opening_date", "closing_date",
	"plan_price", "mobile", "email", "address", "notes", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestClientRepositoryCreateAssignsID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	opened := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), "SN-1", "Ram Shrestha", "ACC-100", opened, nil,
			"1500", "9800000000", "", "Kathmandu", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	client := &models.Client{
		SerialNumber:  "SN-1",
		ClientName:    "Ram Shrestha",
		AccountNumber: "ACC-100",
		OpeningDate:   opened,
		PlanPrice:     decimal.NewFromInt(1500),
		Mobile:        "9800000000",
		Address:       "Kathmandu",
	}
	id, err := repo.Create(context.Background(), client)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, client.ID)
	assert.Equal(t, created, client.CreatedAt)
}

func TestClientRepositoryGetByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT .* FROM clients WHERE id=\\$1").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	c, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestClientRepositoryGetByIDScansClosingDate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	opened := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM clients WHERE id=\\$1").
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow("c-1", "SN", "Sita", "ACC-2", opened, closed, "999.50", "", "", "", "", opened))

	c, err := repo.GetByID(context.Background(), "c-1")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, c.ClosingDate)
	assert.Equal(t, closed, *c.ClosingDate)
	assert.True(t, c.PlanPrice.Equal(decimal.RequireFromString("999.50")))
}

func TestClientRepositoryListOrdersByName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .* FROM clients ORDER BY client_name ASC").
		WillReturnRows(sqlmock.NewRows(clientCols).
			AddRow("a", "", "Anil", "1", now, nil, "0", "", "", "", "", now).
			AddRow("b", "", "Bina", "2", now, nil, "0", "", "", "", "", now))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anil", list[0].ClientName)
	assert.Nil(t, list[0].ClosingDate)
}

func TestClientRepositorySearchEscapesPattern(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery("WHERE client_name ILIKE \\$1 OR account_number ILIKE \\$1").
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows(clientCols))

	list, err := repo.Search(context.Background(), "50%_off")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClientRepositoryUpdateMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	mock.ExpectExec("UPDATE clients").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Client{ID: "gone", ClientName: "x", AccountNumber: "y"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClientRepositoryDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	mock.ExpectExec("DELETE FROM clients WHERE id=\\$1").
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c-1"))
}

func TestClientRepositoryCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM clients").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
