package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tuntun/internal/models"
	"tuntun/internal/repositories"
)

// DuesService reminds the owner about open clients that stopped paying.
type DuesService struct {
	Payments   repositories.PaymentRepository
	owner      OwnerNotifier
	mail       EmailService
	ownerEmail string
	grace      time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewDuesService(
	payments repositories.PaymentRepository,
	owner OwnerNotifier,
	mail EmailService,
	ownerEmail string,
	graceDays int,
	log *zap.Logger,
) *DuesService {
	return &DuesService{
		Payments:   payments,
		owner:      owner,
		mail:       mail,
		ownerEmail: ownerEmail,
		grace:      time.Duration(graceDays) * 24 * time.Hour,
		log:        log.Named("dues"),
		now:        time.Now,
	}
}

// Overdue lists clients whose last payment, or opening date when they never
// paid, is older than the grace period.
func (s *DuesService) Overdue(ctx context.Context) ([]*models.ClientDues, error) {
	all, err := s.Payments.LastPaymentDates(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := s.now().Add(-s.grace)
	res := []*models.ClientDues{}
	for _, d := range all {
		since := d.OpeningDate
		if d.LastPayment != nil {
			since = *d.LastPayment
		}
		if since.Before(cutoff) {
			res = append(res, d)
		}
	}
	return res, nil
}

// SendDigest notifies the owner about overdue clients. Nothing is sent when
// everyone is up to date.
func (s *DuesService) SendDigest(ctx context.Context) error {
	overdue, err := s.Overdue(ctx)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		s.log.Debug("no overdue clients")
		return nil
	}
	text := digestText(overdue)
	if err := s.owner.NotifyOwner(ctx, text); err != nil {
		s.log.Warn("digest telegram failed", zap.Error(err))
	}
	if s.ownerEmail != "" && s.mail != nil {
		subject := fmt.Sprintf("%d clients with overdue payments", len(overdue))
		if err := s.mail.SendDigest(s.ownerEmail, subject, text); err != nil {
			s.log.Warn("digest email failed", zap.Error(err))
		}
	}
	s.log.Info("dues digest sent", zap.Int("overdue", len(overdue)))
	return nil
}

func digestText(overdue []*models.ClientDues) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overdue clients: %d\n", len(overdue))
	for _, d := range overdue {
		last := "never paid"
		if d.LastPayment != nil {
			last = "last paid " + d.LastPayment.Format("02.01.2006")
		}
		fmt.Fprintf(&b, "- %s (%s)", d.ClientName, last)
		if d.Mobile != "" {
			fmt.Fprintf(&b, " %s", d.Mobile)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Schedule registers the digest on c using a standard five-field spec.
func (s *DuesService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.SendDigest(ctx); err != nil {
			s.log.Error("dues digest", zap.Error(err))
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule dues digest %q: %w", spec, err)
	}
	return id, nil
}
