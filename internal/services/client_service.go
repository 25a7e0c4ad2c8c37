package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/realtime"
	"tuntun/internal/repositories"
)

// Publisher announces that a topic's data changed.
type Publisher interface {
	Publish(topics ...string)
}

type ClientService struct {
	Repo repositories.ClientRepository
	hub  Publisher
	log  *zap.Logger
}

func NewClientService(repo repositories.ClientRepository, hub Publisher, log *zap.Logger) *ClientService {
	return &ClientService{Repo: repo, hub: hub, log: log.Named("clients")}
}

func validateClient(client *models.Client) error {
	client.ClientName = strings.TrimSpace(client.ClientName)
	client.AccountNumber = strings.TrimSpace(client.AccountNumber)
	if client.ClientName == "" {
		return invalid("Client name is required")
	}
	if client.AccountNumber == "" {
		return invalid("Account number is required")
	}
	if client.PlanPrice.IsNegative() {
		return invalid("Plan price cannot be negative")
	}
	if err := checkMoney(client.PlanPrice, "Plan price"); err != nil {
		return err
	}
	if client.ClosingDate != nil && client.ClosingDate.Before(client.OpeningDate) {
		return invalid("Closing date is before opening date")
	}
	return nil
}

// List returns every client, or only those whose name or account number
// contains query when it is not blank.
func (s *ClientService) List(ctx context.Context, query string) ([]*models.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Repo.List(ctx)
	}
	return s.Repo.Search(ctx, query)
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *ClientService) Add(ctx context.Context, client *models.Client) (string, error) {
	if client.OpeningDate.IsZero() {
		client.OpeningDate = time.Now().UTC()
	}
	if err := validateClient(client); err != nil {
		return "", err
	}
	id, err := s.Repo.Create(ctx, client)
	if err != nil {
		return "", err
	}
	s.log.Info("client added", zap.String("client_id", id))
	s.hub.Publish(realtime.TopicClients)
	return id, nil
}

func (s *ClientService) Update(ctx context.Context, client *models.Client) error {
	if client.OpeningDate.IsZero() {
		client.OpeningDate = time.Now().UTC()
	}
	if err := validateClient(client); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, client); err != nil {
		return notFound(err)
	}
	s.log.Info("client updated", zap.String("client_id", client.ID))
	s.hub.Publish(realtime.TopicClients)
	return nil
}

// Delete removes the client together with its payments.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.log.Info("client deleted", zap.String("client_id", id))
	s.hub.Publish(realtime.TopicClients, realtime.TopicPayments, realtime.ClientPaymentsTopic(id))
	return nil
}
