package file

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

const nonceSize = 24

// ErrSealedWithOtherKey is returned when the session file cannot be opened
// with the configured key.
var ErrSealedWithOtherKey = errors.New("session file sealed with a different key")

// Store keeps the token pair in a single file. With a key configured the
// file content is sealed with NaCl secretbox.
type Store struct {
	path   string
	key    *[32]byte
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a file store at path. key may be nil for plaintext storage.
func New(path string, key []byte, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path must be provided")
	}
	s := &Store{path: path, logger: logger}
	if key != nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("session key must be 32 bytes, got %d", len(key))
		}
		s.key = new([32]byte)
		copy(s.key[:], key)
	}
	return s, nil
}

// Load reads the pair. A missing file is an empty session.
func (s *Store) Load(_ context.Context) (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.TokenPair{}, nil
		}
		return model.TokenPair{}, fmt.Errorf("read session file: %w", err)
	}

	plain, err := s.open(raw)
	if err != nil {
		return model.TokenPair{}, err
	}

	var pair model.TokenPair
	if err := json.Unmarshal(plain, &pair); err != nil {
		return model.TokenPair{}, fmt.Errorf("decode session file: %w", err)
	}
	return pair, nil
}

// Save writes pair atomically with owner-only permissions.
func (s *Store) Save(_ context.Context, pair model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plain, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	content, err := s.seal(plain)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	if s.key == nil {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, s.key)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

func (s *Store) open(raw []byte) ([]byte, error) {
	if s.key == nil {
		return raw, nil
	}
	sealed := make([]byte, base64.StdEncoding.DecodedLen(len(raw)))
	n, err := base64.StdEncoding.Decode(sealed, raw)
	if err != nil || n < nonceSize+secretbox.Overhead {
		return nil, ErrSealedWithOtherKey
	}
	sealed = sealed[:n]

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, s.key)
	if !ok {
		return nil, ErrSealedWithOtherKey
	}
	return plain, nil
}
