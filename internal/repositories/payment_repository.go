package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tuntun/internal/models"
)

type PaymentRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]*models.Payment, error)
	ListAll(ctx context.Context) ([]*models.Payment, error)
	GetByID(ctx context.Context, clientID, id string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) (string, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, clientID, id string) error
	Total(ctx context.Context) (decimal.Decimal, error)
	TotalByClient(ctx context.Context, clientID string) (decimal.Decimal, error)
	LastPaymentDates(ctx context.Context) ([]*models.ClientDues, error)
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.ClientID, &p.Amount, &p.Date, &p.Title, &p.Notes); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) (string, error) {
	const q = `
                INSERT INTO payments (id, client_id, amount, date, title, notes)
                VALUES ($1, $2, $3, $4, $5, $6)
        `
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, q, id, payment.ClientID, payment.Amount, payment.Date,
		payment.Title, payment.Notes); err != nil {
		return "", fmt.Errorf("create payment: %w", err)
	}
	payment.ID = id
	return id, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	const q = `
                UPDATE payments
                SET amount=$1, date=$2, title=$3, notes=$4
                WHERE id=$5 AND client_id=$6
        `
	res, err := r.db.ExecContext(ctx, q, payment.Amount, payment.Date, payment.Title, payment.Notes,
		payment.ID, payment.ClientID)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return expectAffected(res, "update payment")
}

func (r *paymentRepository) Delete(ctx context.Context, clientID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id=$1 AND client_id=$2`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return expectAffected(res, "delete payment")
}

func (r *paymentRepository) GetByID(ctx context.Context, clientID, id string) (*models.Payment, error) {
	const q = `
                SELECT id, client_id, amount, date, title, notes
                FROM payments
                WHERE id=$1 AND client_id=$2
        `
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id, clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListByClient returns the client's payments, newest first.
func (r *paymentRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Payment, error) {
	const q = `
                SELECT id, client_id, amount, date, title, notes
                FROM payments
                WHERE client_id=$1
                ORDER BY date DESC
        `
	rows, err := r.db.QueryContext(ctx, q, clientID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return collectPayments(rows, "list payments")
}

// ListAll returns every payment across clients, oldest first.
func (r *paymentRepository) ListAll(ctx context.Context) ([]*models.Payment, error) {
	const q = `
                SELECT id, client_id, amount, date, title, notes
                FROM payments
                ORDER BY date ASC
        `
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list all payments: %w", err)
	}
	return collectPayments(rows, "list all payments")
}

func (r *paymentRepository) Total(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total payments: %w", err)
	}
	return total, nil
}

func (r *paymentRepository) TotalByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE client_id=$1`
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, q, clientID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total client payments: %w", err)
	}
	return total, nil
}

// LastPaymentDates lists open clients with the date of their latest payment.
func (r *paymentRepository) LastPaymentDates(ctx context.Context) ([]*models.ClientDues, error) {
	const q = `
                SELECT c.id, c.client_name, c.mobile, c.opening_date, MAX(p.date)
                FROM clients c
                LEFT JOIN payments p ON p.client_id = c.id
                WHERE c.closing_date IS NULL
                GROUP BY c.id, c.client_name, c.mobile, c.opening_date
                ORDER BY c.client_name ASC
        `
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("last payment dates: %w", err)
	}
	defer rows.Close()

	res := []*models.ClientDues{}
	for rows.Next() {
		var (
			d    models.ClientDues
			last sql.NullTime
		)
		if err := rows.Scan(&d.ClientID, &d.ClientName, &d.Mobile, &d.OpeningDate, &last); err != nil {
			return nil, fmt.Errorf("last payment dates: %w", err)
		}
		if last.Valid {
			t := last.Time
			d.LastPayment = &t
		}
		res = append(res, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("last payment dates: %w", err)
	}
	return res, nil
}

func collectPayments(rows *sql.Rows, op string) ([]*models.Payment, error) {
	defer rows.Close()
	res := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
