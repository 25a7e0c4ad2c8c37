package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tuntun/internal/models"
)

// PaymentNotifier is told about every recorded payment. Failures are logged
// and never undo the payment.
type PaymentNotifier interface {
	PaymentRecorded(ctx context.Context, client *models.Client, payment *models.Payment) error
}

// OwnerNotifier delivers free-form text to the business owner.
type OwnerNotifier interface {
	NotifyOwner(ctx context.Context, text string) error
}

const notifyTimeout = 30 * time.Second

func notifyAll(ctx context.Context, log *zap.Logger, notifiers []PaymentNotifier, client *models.Client, payment *models.Payment) {
	for _, n := range notifiers {
		if err := n.PaymentRecorded(ctx, client, payment); err != nil {
			log.Warn("payment notification failed",
				zap.String("client_id", client.ID),
				zap.String("payment_id", payment.ID),
				zap.Error(err))
		}
	}
}
