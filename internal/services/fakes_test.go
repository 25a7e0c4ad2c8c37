package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"tuntun/internal/models"
	"tuntun/internal/pdf"
	"tuntun/internal/repositories"
)

type memClients struct {
	rows map[string]*models.Client
	seq  int
	err  error
}

func newMemClients(clients ...*models.Client) *memClients {
	m := &memClients{rows: map[string]*models.Client{}}
	for _, c := range clients {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memClients) sorted(keep func(*models.Client) bool) []*models.Client {
	res := []*models.Client{}
	for _, c := range m.rows {
		if keep(c) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ClientName < res[j].ClientName })
	return res
}

func (m *memClients) List(context.Context) ([]*models.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(*models.Client) bool { return true }), nil
}

func (m *memClients) Search(_ context.Context, q string) ([]*models.Client, error) {
	q = strings.ToLower(q)
	return m.sorted(func(c *models.Client) bool {
		return strings.Contains(strings.ToLower(c.ClientName), q) || strings.Contains(strings.ToLower(c.AccountNumber), q)
	}), nil
}

func (m *memClients) GetByID(_ context.Context, id string) (*models.Client, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[id], nil
}

func (m *memClients) Create(_ context.Context, c *models.Client) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.seq++
	c.ID = "c" + strconv.Itoa(m.seq)
	m.rows[c.ID] = c
	return c.ID, nil
}

func (m *memClients) Update(_ context.Context, c *models.Client) error {
	if _, ok := m.rows[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	m.rows[c.ID] = c
	return nil
}

func (m *memClients) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memClients) Count(context.Context) (int, error) { return len(m.rows), nil }

type memPayments struct {
	rows []*models.Payment
	dues []*models.ClientDues
	seq  int
}

func (m *memPayments) ListByClient(_ context.Context, clientID string) ([]*models.Payment, error) {
	res := []*models.Payment{}
	for _, p := range m.rows {
		if p.ClientID == clientID {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.After(res[j].Date) })
	return res, nil
}

func (m *memPayments) ListAll(context.Context) ([]*models.Payment, error) {
	res := append([]*models.Payment{}, m.rows...)
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}

func (m *memPayments) GetByID(_ context.Context, clientID, id string) (*models.Payment, error) {
	for _, p := range m.rows {
		if p.ID == id && p.ClientID == clientID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) (string, error) {
	m.seq++
	p.ID = "p" + strconv.Itoa(m.seq)
	m.rows = append(m.rows, p)
	return p.ID, nil
}

func (m *memPayments) Update(_ context.Context, p *models.Payment) error {
	for i, old := range m.rows {
		if old.ID == p.ID && old.ClientID == p.ClientID {
			m.rows[i] = p
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memPayments) Delete(_ context.Context, clientID, id string) error {
	for i, p := range m.rows {
		if p.ID == id && p.ClientID == clientID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memPayments) Total(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.rows {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (m *memPayments) TotalByClient(ctx context.Context, clientID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.rows {
		if p.ClientID == clientID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (m *memPayments) LastPaymentDates(context.Context) ([]*models.ClientDues, error) {
	return m.dues, nil
}

type recordingHub struct {
	mu     sync.Mutex
	topics []string
}

func (h *recordingHub) Publish(topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.topics = append(h.topics, topics...)
}

type memStore struct {
	data   map[string][]byte
	putErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (s *memStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Put(key string, value []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

type recordingNotifier struct {
	payments []*models.Payment
	texts    []string
	err      error
}

func (n *recordingNotifier) PaymentRecorded(_ context.Context, _ *models.Client, p *models.Payment) error {
	n.payments = append(n.payments, p)
	return n.err
}

func (n *recordingNotifier) NotifyOwner(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return n.err
}

type stubGenerator struct {
	rendered []pdf.StatementData
	saved    int
}

func (g *stubGenerator) RenderStatement(w io.Writer, data pdf.StatementData) error {
	g.rendered = append(g.rendered, data)
	_, err := io.Copy(w, bytes.NewReader([]byte("%PDF-stub")))
	return err
}

func (g *stubGenerator) SaveStatement(pdf.StatementData) (string, error) {
	g.saved++
	return "/statement.pdf", nil
}

type sentMail struct {
	to, subject, body, filename string
	attachment                  []byte
}

type recordingMail struct {
	sent []sentMail
	err  error
}

func (m *recordingMail) SendStatement(email, clientName, filename string, pdf []byte) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: email, body: clientName, filename: filename, attachment: pdf})
	return nil
}

func (m *recordingMail) SendDigest(email, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: email, subject: subject, body: body})
	return m.err
}

var errBoom = errors.New("boom")
