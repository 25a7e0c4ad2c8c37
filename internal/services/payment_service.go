package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tuntun/internal/metrics"
	"tuntun/internal/models"
	"tuntun/internal/realtime"
	"tuntun/internal/repositories"
)

type PaymentService struct {
	Repo       repositories.PaymentRepository
	ClientRepo repositories.ClientRepository
	hub        Publisher
	notifiers  []PaymentNotifier
	log        *zap.Logger

	notifying sync.WaitGroup
}

func NewPaymentService(
	repo repositories.PaymentRepository,
	clientRepo repositories.ClientRepository,
	hub Publisher,
	log *zap.Logger,
	notifiers ...PaymentNotifier,
) *PaymentService {
	return &PaymentService{
		Repo:       repo,
		ClientRepo: clientRepo,
		hub:        hub,
		notifiers:  notifiers,
		log:        log.Named("payments"),
	}
}

func validatePayment(p *models.Payment) error {
	p.Title = strings.TrimSpace(p.Title)
	if !p.Amount.IsPositive() {
		return invalid("Amount must be greater than zero")
	}
	if err := checkMoney(p.Amount, "Amount"); err != nil {
		return err
	}
	if p.Title == "" {
		return invalid("Title is required")
	}
	return nil
}

func (s *PaymentService) owner(ctx context.Context, clientID string) (*models.Client, error) {
	client, err := s.ClientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientAbsent
	}
	return client, nil
}

func (s *PaymentService) changed(clientID string) {
	s.hub.Publish(realtime.TopicPayments, realtime.ClientPaymentsTopic(clientID))
}

// ListByClient returns the client's payments, newest first.
func (s *PaymentService) ListByClient(ctx context.Context, clientID string) ([]*models.Payment, error) {
	if _, err := s.owner(ctx, clientID); err != nil {
		return nil, err
	}
	return s.Repo.ListByClient(ctx, clientID)
}

// ListAll returns every payment, oldest first.
func (s *PaymentService) ListAll(ctx context.Context) ([]*models.Payment, error) {
	return s.Repo.ListAll(ctx)
}

func (s *PaymentService) Get(ctx context.Context, clientID, id string) (*models.Payment, error) {
	p, err := s.Repo.GetByID(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *PaymentService) Add(ctx context.Context, p *models.Payment) (string, error) {
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	if err := validatePayment(p); err != nil {
		return "", err
	}
	client, err := s.owner(ctx, p.ClientID)
	if err != nil {
		return "", err
	}
	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		return "", err
	}
	metrics.RecordPayment()
	s.log.Info("payment added", zap.String("client_id", p.ClientID), zap.String("payment_id", id))
	s.changed(p.ClientID)
	s.notify(ctx, client, *p)
	return id, nil
}

// notify sends receipts in the background, outliving the request context.
func (s *PaymentService) notify(ctx context.Context, client *models.Client, p models.Payment) {
	if len(s.notifiers) == 0 {
		return
	}
	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		notifyAll(ctx, s.log, s.notifiers, client, &p)
	}()
}

// Drain waits for pending receipt notifications.
func (s *PaymentService) Drain() {
	s.notifying.Wait()
}

// Update replaces a payment. A zero date keeps the stored one.
func (s *PaymentService) Update(ctx context.Context, p *models.Payment) error {
	if err := validatePayment(p); err != nil {
		return err
	}
	if _, err := s.owner(ctx, p.ClientID); err != nil {
		return err
	}
	if p.Date.IsZero() {
		stored, err := s.Get(ctx, p.ClientID, p.ID)
		if err != nil {
			return err
		}
		p.Date = stored.Date
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return notFound(err)
	}
	s.log.Info("payment updated", zap.String("client_id", p.ClientID), zap.String("payment_id", p.ID))
	s.changed(p.ClientID)
	return nil
}

func (s *PaymentService) Delete(ctx context.Context, clientID, id string) error {
	if err := s.Repo.Delete(ctx, clientID, id); err != nil {
		return notFound(err)
	}
	s.log.Info("payment deleted", zap.String("client_id", clientID), zap.String("payment_id", id))
	s.changed(clientID)
	return nil
}

func (s *PaymentService) Total(ctx context.Context) (decimal.Decimal, error) {
	return s.Repo.Total(ctx)
}

func (s *PaymentService) ClientTotal(ctx context.Context, clientID string) (decimal.Decimal, error) {
	return s.Repo.TotalByClient(ctx, clientID)
}
