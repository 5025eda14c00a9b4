// Package secstore persists the two session secrets (bearer token and the
// serialized user profile) encrypted at rest. It is pure storage: values are
// opaque strings and no session semantics live here.
package secstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/civicdesk/civicdesk/internal/errors"
	"github.com/civicdesk/civicdesk/internal/log"
)

// Keys managed by the store. Callers outside the session layer have no
// business reading these.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
)

const (
	storeFile = "credentials.enc"
	keyFile   = ".keyfile"

	pbkdf2Iterations = 100000
	masterKeyLen     = 32
	keyMaterialLen   = 64
)

var kdfSalt = []byte("civicdesk-secure-store")

// Store is an encrypted file-backed key-value store.
//
// Every operation is atomic with respect to itself; cross-key atomicity is
// the caller's responsibility. Read failures degrade to "absent" and are
// logged rather than propagated, so a corrupt store reads as an empty one.
type Store struct {
	mu sync.RWMutex

	// storePath is the file path where encrypted entries are stored
	storePath string

	// masterKey is the encryption key derived from the machine-local keyfile
	masterKey []byte

	// entries maps keys to base64-encoded AES-GCM ciphertexts
	entries map[string]string

	logger *log.Logger
}

// Open creates or loads the secure store rooted at dir.
//
// The first Open generates a random keyfile next to the store; the master
// key is derived from it with PBKDF2. A missing or unreadable store file is
// not an error, but a store that cannot obtain a key is: without one no
// secret could ever be persisted.
func Open(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreKeyInit, "create store directory", err)
	}

	material, err := loadOrCreateKeyMaterial(filepath.Join(dir, keyFile))
	if err != nil {
		return nil, err
	}

	store := &Store{
		storePath: filepath.Join(dir, storeFile),
		masterKey: pbkdf2.Key(material, kdfSalt, pbkdf2Iterations, masterKeyLen, sha256.New),
		entries:   make(map[string]string),
		logger:    logger.With("component", "secstore"),
	}

	// A corrupt or unreadable store file degrades to an empty store.
	if err := store.load(); err != nil && !os.IsNotExist(err) {
		store.logger.Warn("store unreadable, starting empty", "path", store.storePath, "error", err.Error())
		store.entries = make(map[string]string)
	}

	return store, nil
}

// Get retrieves a value. A missing key, an undecryptable entry, or any other
// failure reads as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	encrypted, ok := s.entries[key]
	if !ok {
		return "", false
	}

	value, err := s.decrypt(encrypted)
	if err != nil {
		s.logger.Warn("decrypt failed, treating as absent", "op", "get", "key", key, "error", err.Error())
		return "", false
	}

	return value, true
}

// Set stores a value. Unlike reads, write failures surface to the caller:
// a session whose token was never persisted must not be reported as saved.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encrypted, err := s.encrypt(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreEncrypt, fmt.Sprintf("encrypt value for %s", key), err)
	}

	previous, hadPrevious := s.entries[key]
	s.entries[key] = encrypted

	if err := s.save(); err != nil {
		// Roll back the in-memory entry so memory never runs ahead of disk.
		if hadPrevious {
			s.entries[key] = previous
		} else {
			delete(s.entries, key)
		}
		return errors.Wrap(errors.ErrCodeStoreWrite, fmt.Sprintf("persist %s", key), err)
	}

	return nil
}

// Delete removes a key. Best-effort: failures are logged, never returned.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return
	}

	delete(s.entries, key)

	if err := s.save(); err != nil {
		s.logger.Warn("persist after delete failed", "op", "delete", "key", key, "error", err.Error())
	}
}

// ClearAll removes the token and user entries. Each deletion is attempted
// independently so one failure cannot shadow the other.
func (s *Store) ClearAll() {
	s.Delete(KeyToken)
	s.Delete(KeyUser)
}

// encrypt encrypts a value using AES-GCM
func (s *Store) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a value using AES-GCM
func (s *Store) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(s.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertextBytes := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertextBytes, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// save writes entries to disk with restricted permissions
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.storePath, data, 0o600)
}

// load loads entries from disk
func (s *Store) load() error {
	data, err := os.ReadFile(s.storePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.entries)
}

// loadOrCreateKeyMaterial reads the keyfile, generating it on first use
func loadOrCreateKeyMaterial(path string) ([]byte, error) {
	material, err := os.ReadFile(path)
	if err == nil && len(material) >= masterKeyLen {
		return material, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeStoreKeyInit, "read keyfile", err)
	}

	material = make([]byte, keyMaterialLen)
	if _, err := io.ReadFull(rand.Reader, material); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreKeyInit, "generate key material", err)
	}

	if err := os.WriteFile(path, material, 0o600); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreKeyInit, "write keyfile", err)
	}

	return material, nil
}
