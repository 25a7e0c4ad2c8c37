package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/pdf"
	"tuntun/internal/repositories"
)

type StatementService struct {
	Clients  repositories.ClientRepository
	Payments repositories.PaymentRepository
	gen      pdf.Generator
	mail     EmailService
	log      *zap.Logger
	now      func() time.Time
}

func NewStatementService(
	clients repositories.ClientRepository,
	payments repositories.PaymentRepository,
	gen pdf.Generator,
	mail EmailService,
	log *zap.Logger,
) *StatementService {
	return &StatementService{
		Clients:  clients,
		Payments: payments,
		gen:      gen,
		mail:     mail,
		log:      log.Named("statements"),
		now:      time.Now,
	}
}

func (s *StatementService) collect(ctx context.Context, clientID string) (*models.Client, pdf.StatementData, error) {
	client, err := s.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, pdf.StatementData{}, err
	}
	if client == nil {
		return nil, pdf.StatementData{}, ErrNotFound
	}
	payments, err := s.Payments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pdf.StatementData{}, err
	}

	data := pdf.StatementData{
		ClientID:      client.ID,
		ClientName:    client.ClientName,
		AccountNumber: client.AccountNumber,
		SerialNumber:  client.SerialNumber,
		Mobile:        client.Mobile,
		Address:       client.Address,
		OpeningDate:   client.OpeningDate,
		ClosingDate:   client.ClosingDate,
		PlanPrice:     client.PlanPrice,
		GeneratedAt:   s.now().UTC(),
	}
	for _, p := range payments {
		data.Payments = append(data.Payments, pdf.StatementLine{Date: p.Date, Title: p.Title, Notes: p.Notes, Amount: p.Amount})
		data.Total = data.Total.Add(p.Amount)
	}
	return client, data, nil
}

// Render builds the client's statement and returns the PDF and a download name.
func (s *StatementService) Render(ctx context.Context, clientID string) ([]byte, string, error) {
	_, data, err := s.collect(ctx, clientID)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := s.gen.RenderStatement(&buf, data); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), statementFilename(data), nil
}

// Email sends the statement to the client's address and archives a copy.
func (s *StatementService) Email(ctx context.Context, clientID string) error {
	client, data, err := s.collect(ctx, clientID)
	if err != nil {
		return err
	}
	to := strings.TrimSpace(client.Email)
	if to == "" {
		return invalid("Client has no email address")
	}

	var buf bytes.Buffer
	if err := s.gen.RenderStatement(&buf, data); err != nil {
		return err
	}
	if err := s.mail.SendStatement(to, client.ClientName, statementFilename(data), buf.Bytes()); err != nil {
		return err
	}
	if path, err := s.gen.SaveStatement(data); err != nil {
		s.log.Warn("statement archive failed", zap.String("client_id", clientID), zap.Error(err))
	} else {
		s.log.Info("statement emailed", zap.String("client_id", clientID), zap.String("archive", path))
	}
	return nil
}

func statementFilename(data pdf.StatementData) string {
	return fmt.Sprintf("statement_%s_%s.pdf", data.AccountNumber, data.GeneratedAt.Format("20060102"))
}
