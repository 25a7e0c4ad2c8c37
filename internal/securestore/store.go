// Package securestore is a small encrypted key-value file used for secrets
// that must stay on the local machine, such as the app-lock PIN hash.
package securestore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	saltSize = 16
	hkdfInfo = "tuntun secure prefs v1"
)

// ErrCorrupt is returned when the file cannot be authenticated with the
// configured secret.
var ErrCorrupt = errors.New("secure store: corrupt file or wrong secret")

// Store keeps every value encrypted at rest with XChaCha20-Poly1305. The key
// is derived from the master secret with HKDF-SHA256 and a per-write salt.
type Store struct {
	path   string
	secret []byte

	mu sync.Mutex
}

func Open(path, masterSecret string) (*Store, error) {
	if masterSecret == "" {
		return nil, errors.New("secure store: master secret is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("secure store dir: %w", err)
	}
	s := &Store{path: path, secret: []byte(masterSecret)}
	// fail early on a wrong secret rather than on first use
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *Store) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *Store) deriveKey(salt []byte) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.secret, salt, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func (s *Store) load() (map[string][]byte, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secure store: %w", err)
	}
	if len(raw) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, ErrCorrupt
	}
	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	sealed := raw[saltSize+chacha20poly1305.NonceSizeX:]

	key, err := s.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, sealed, []byte(hkdfInfo))
	if err != nil {
		return nil, ErrCorrupt
	}
	m := map[string][]byte{}
	if err := json.Unmarshal(plain, &m); err != nil {
		return nil, ErrCorrupt
	}
	return m, nil
}

func (s *Store) save(m map[string][]byte) error {
	plain, err := json.Marshal(m)
	if err != nil {
		return err
	}
	buf := make([]byte, saltSize+chacha20poly1305.NonceSizeX, saltSize+chacha20poly1305.NonceSizeX+len(plain)+chacha20poly1305.Overhead)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("secure store nonce: %w", err)
	}
	key, err := s.deriveKey(buf[:saltSize])
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return err
	}
	out := aead.Seal(buf, buf[saltSize:], plain, []byte(hkdfInfo))

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".secure-*")
	if err != nil {
		return fmt.Errorf("secure store temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("write secure store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write secure store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace secure store: %w", err)
	}
	return nil
}
