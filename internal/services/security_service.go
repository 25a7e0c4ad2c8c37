package services

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tuntun/internal/metrics"
	"tuntun/internal/models"
	"tuntun/internal/pin"
)

const keyPinCredential = "pin_hash"

// SecretStore is the local encrypted key-value store holding the PIN.
type SecretStore interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// SecurityService owns the app-lock PIN. It implements pin.Credentials.
type SecurityService struct {
	store       SecretStore
	maxAttempts int
	lockout     time.Duration
	log         *zap.Logger
	now         func() time.Time
}

func NewSecurityService(store SecretStore, maxAttempts int, lockout time.Duration, log *zap.Logger) *SecurityService {
	return &SecurityService{
		store:       store,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		log:         log.Named("security"),
		now:         time.Now,
	}
}

func (s *SecurityService) credential() (*models.PinCredential, error) {
	raw, ok, err := s.store.Get(keyPinCredential)
	if err != nil {
		return nil, fmt.Errorf("read pin: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var cred models.PinCredential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("decode pin: %w", err)
	}
	return &cred, nil
}

func (s *SecurityService) save(cred *models.PinCredential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	if err := s.store.Put(keyPinCredential, raw); err != nil {
		return fmt.Errorf("write pin: %w", err)
	}
	return nil
}

func (s *SecurityService) IsPinSet() (bool, error) {
	cred, err := s.credential()
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

func (s *SecurityService) Status() (models.PinStatus, error) {
	cred, err := s.credential()
	if err != nil {
		return models.PinStatus{}, err
	}
	st := models.PinStatus{IsPinSet: cred != nil}
	if cred != nil && cred.LockedUntil != nil && cred.LockedUntil.After(s.now()) {
		st.LockedUntil = cred.LockedUntil
	}
	return st, nil
}

// VerifyPin checks pin against the stored hash. Consecutive failures past
// maxAttempts suspend verification for the lockout period.
func (s *SecurityService) VerifyPin(candidate string) error {
	cred, err := s.credential()
	if err != nil {
		return err
	}
	if cred == nil {
		metrics.RecordPinAttempt("mismatch")
		return pin.ErrIncorrect
	}
	now := s.now()
	if cred.LockedUntil != nil && cred.LockedUntil.After(now) {
		metrics.RecordPinAttempt("locked")
		return pin.ErrLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.Hash), []byte(candidate)) != nil {
		cred.FailedAttempts++
		if s.maxAttempts > 0 && cred.FailedAttempts >= s.maxAttempts {
			until := now.Add(s.lockout)
			cred.LockedUntil = &until
			cred.FailedAttempts = 0
			s.log.Warn("pin locked after repeated failures", zap.Time("until", until))
		}
		if err := s.save(cred); err != nil {
			return err
		}
		metrics.RecordPinAttempt("mismatch")
		return pin.ErrIncorrect
	}

	if cred.FailedAttempts != 0 || cred.LockedUntil != nil {
		cred.FailedAttempts = 0
		cred.LockedUntil = nil
		if err := s.save(cred); err != nil {
			return err
		}
	}
	metrics.RecordPinAttempt("ok")
	return nil
}

func (s *SecurityService) SetPin(p string) error {
	if !pin.Valid(p) {
		return pin.ErrInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if err := s.save(&models.PinCredential{Hash: string(hash)}); err != nil {
		return err
	}
	s.log.Info("pin set")
	return nil
}

func (s *SecurityService) RemovePin() error {
	if err := s.store.Delete(keyPinCredential); err != nil {
		return fmt.Errorf("remove pin: %w", err)
	}
	s.log.Info("pin removed")
	return nil
}
