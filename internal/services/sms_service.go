package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/utils"
)

type smsSender interface {
	SendSMS(to, text string) (*utils.SendSMSResponse, error)
}

// SMSService texts a payment receipt to the client's mobile number.
type SMSService struct {
	Client smsSender
	log    *zap.Logger
}

func NewSMSService(client smsSender, log *zap.Logger) *SMSService {
	return &SMSService{Client: client, log: log.Named("sms")}
}

func receiptText(client *models.Client, payment *models.Payment) string {
	return fmt.Sprintf("Received %s for %s (acc %s) on %s. Thank you!",
		payment.Amount.StringFixed(2),
		payment.Title,
		client.AccountNumber,
		payment.Date.Format("02.01.2006"))
}

func (s *SMSService) PaymentRecorded(_ context.Context, client *models.Client, payment *models.Payment) error {
	phone := strings.TrimSpace(client.Mobile)
	if phone == "" {
		return nil
	}
	resp, err := s.Client.SendSMS(phone, receiptText(client, payment))
	if err != nil {
		return fmt.Errorf("mobizon error: %w", err)
	}
	s.log.Debug("receipt sent", zap.String("client_id", client.ID), zap.String("message_id", resp.Data.MessageID))
	return nil
}
