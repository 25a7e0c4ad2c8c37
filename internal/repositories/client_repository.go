package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tuntun/internal/models"
)

// ErrNotFound is returned by mutations that target a missing row.
var ErrNotFound = errors.New("not found")

type ClientRepository interface {
	List(ctx context.Context) ([]*models.Client, error)
	Search(ctx context.Context, query string) ([]*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) (string, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, serial_number, client_name, account_number, opening_date, closing_date,
                plan_price, mobile, email, address, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		c       models.Client
		closing sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.SerialNumber, &c.ClientName, &c.AccountNumber, &c.OpeningDate, &closing,
		&c.PlanPrice, &c.Mobile, &c.Email, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
		return nil, err
	}
	if closing.Valid {
		t := closing.Time
		c.ClosingDate = &t
	}
	return &c, nil
}

func closingDate(c *models.Client) sql.NullTime {
	if c.ClosingDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *c.ClosingDate, Valid: true}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) (string, error) {
	const q = `
                INSERT INTO clients (id, serial_number, client_name, account_number, opening_date, closing_date,
                                     plan_price, mobile, email, address, notes)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                RETURNING created_at
        `
	id := uuid.NewString()
	if err := r.db.QueryRowContext(ctx, q, id, client.SerialNumber, client.ClientName, client.AccountNumber,
		client.OpeningDate, closingDate(client), client.PlanPrice, client.Mobile, client.Email, client.Address,
		client.Notes).Scan(&client.CreatedAt); err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}
	client.ID = id
	return id, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	const q = `
                UPDATE clients
                SET serial_number=$1, client_name=$2, account_number=$3, opening_date=$4, closing_date=$5,
                    plan_price=$6, mobile=$7, email=$8, address=$9, notes=$10
                WHERE id=$11
        `
	res, err := r.db.ExecContext(ctx, q, client.SerialNumber, client.ClientName, client.AccountNumber,
		client.OpeningDate, closingDate(client), client.PlanPrice, client.Mobile, client.Email, client.Address,
		client.Notes, client.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return expectAffected(res, "update client")
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	q := `SELECT ` + clientColumns + ` FROM clients ORDER BY client_name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows, "list clients")
}

// Search matches the query case-insensitively against the client name or
// the account number.
func (r *clientRepository) Search(ctx context.Context, query string) ([]*models.Client, error) {
	q := `SELECT ` + clientColumns + `
                FROM clients
                WHERE client_name ILIKE $1 OR account_number ILIKE $1
                ORDER BY client_name ASC`
	rows, err := r.db.QueryContext(ctx, q, "%"+escapeLike(query)+"%")
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return collectClients(rows, "search clients")
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return expectAffected(res, "delete client")
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

func collectClients(rows *sql.Rows, op string) ([]*models.Client, error) {
	defer rows.Close()
	res := []*models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
