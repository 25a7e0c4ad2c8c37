package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tuntun/internal/middleware"
	"tuntun/internal/models"
	"tuntun/internal/pdf"
	"tuntun/internal/realtime"
	"tuntun/internal/repositories"
	"tuntun/internal/securestore"
	"tuntun/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memClients struct {
	rows map[string]*models.Client
	seq  int
}

func (m *memClients) List(context.Context) ([]*models.Client, error) {
	return m.Search(context.Background(), "")
}

func (m *memClients) Search(_ context.Context, q string) ([]*models.Client, error) {
	res := []*models.Client{}
	for _, c := range m.rows {
		if strings.Contains(strings.ToLower(c.ClientName+" "+c.AccountNumber), strings.ToLower(q)) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ClientName < res[j].ClientName })
	return res, nil
}

func (m *memClients) GetByID(_ context.Context, id string) (*models.Client, error) {
	return m.rows[id], nil
}

func (m *memClients) Create(_ context.Context, c *models.Client) (string, error) {
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

func (m *memPayments) sum(keep func(*models.Payment) bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range m.rows {
		if keep(p) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func (m *memPayments) Total(context.Context) (decimal.Decimal, error) {
	return m.sum(func(*models.Payment) bool { return true }), nil
}

func (m *memPayments) TotalByClient(_ context.Context, clientID string) (decimal.Decimal, error) {
	return m.sum(func(p *models.Payment) bool { return p.ClientID == clientID }), nil
}

func (m *memPayments) LastPaymentDates(context.Context) ([]*models.ClientDues, error) {
	return []*models.ClientDues{}, nil
}

type jsonBody = map[string]any

type noMail struct{}

func (noMail) SendStatement(string, string, string, []byte) error { return nil }
func (noMail) SendDigest(string, string, string) error            { return nil }

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	clients  *memClients
	payments *memPayments
	hub      *realtime.Hub
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	store, err := securestore.Open(t.TempDir()+"/prefs", "test-secret")
	require.NoError(t, err)
	security := services.NewSecurityService(store, 5, time.Minute, log)
	sessions := middleware.NewSessions("jwt-secret", time.Hour)

	clients := &memClients{rows: map[string]*models.Client{}}
	payments := &memPayments{}
	hub := realtime.NewHub()

	clientService := services.NewClientService(clients, hub, log)
	paymentService := services.NewPaymentService(payments, clients, hub, log)
	statementService := services.NewStatementService(clients, payments, pdf.NewStatementGenerator(t.TempDir(), ""), noMail{}, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", NewHealthHandler(okPinger{}).Healthz)
	pinHandler := NewPinHandler(security, sessions, log)
	r.GET("/pin/status", pinHandler.Status)
	r.POST("/pin/unlock", pinHandler.Unlock)
	r.POST("/pin", pinHandler.Create)

	api := r.Group("/", middleware.PinSession(sessions, security, log))
	api.PUT("/pin", pinHandler.Change)
	api.DELETE("/pin", pinHandler.Remove)

	ch := NewClientHandler(clientService, log)
	ph := NewPaymentHandler(paymentService, log)
	sh := NewStatementHandler(statementService, log)
	api.GET("/clients", ch.List)
	api.POST("/clients", ch.Create)
	api.GET("/clients/:id", ch.GetByID)
	api.PUT("/clients/:id", ch.Update)
	api.DELETE("/clients/:id", ch.Delete)
	api.GET("/clients/:id/payments", ph.ListByClient)
	api.POST("/clients/:id/payments", ph.Create)
	api.PUT("/clients/:id/payments/:pid", ph.Update)
	api.DELETE("/clients/:id/payments/:pid", ph.Delete)
	api.GET("/clients/:id/statement", sh.Download)
	api.POST("/clients/:id/statement/email", sh.Email)
	api.GET("/payments", ph.ListAll)
	api.GET("/payments/total", ph.Total)
	api.GET("/dashboard", NewDashboardHandler(services.NewDashboardService(clients, payments, security), log).GetSummary)

	return &testServer{t: t, router: r, clients: clients, payments: payments, hub: hub}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
