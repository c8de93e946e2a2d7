package credstore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/scrypt"
)

const minFileSecretLength = 16

// scrypt parameters follow the library's recommended interactive defaults.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLength   = 16
)

// FileStore implements Store on a single JSON file encrypted at rest with
// AES-GCM. The encryption key is derived from a caller-supplied secret via
// scrypt, with a random per-file salt persisted alongside the ciphertext.
//
// The store re-reads and rewrites the whole file on every operation, so
// concurrent processes see a last-writer-wins view of the session, same as
// browser cookies across tabs.
type FileStore struct {
	mu     sync.Mutex
	path   string
	secret []byte
}

// filePayload is the on-disk envelope: salt and ciphertext, both base64.
type filePayload struct {
	Salt       string `json:"salt"`
	Ciphertext string `json:"ciphertext"`
}

// NewFileStore creates a file-backed artifact store at path. The secret must
// be at least 16 characters.
func NewFileStore(path, secret string) (*FileStore, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < minFileSecretLength {
		return nil, ErrSecretTooShort
	}

	return &FileStore{
		path:   path,
		secret: []byte(secret),
	}, nil
}

// Set writes an artifact, replacing any previous value under the key.
func (f *FileStore) Set(ctx context.Context, key string, art Artifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	artifacts, err := f.load()
	if err != nil {
		return err
	}

	artifacts[key] = art
	return f.save(artifacts)
}

// Get retrieves an artifact by key.
func (f *FileStore) Get(ctx context.Context, key string) (Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	artifacts, err := f.load()
	if err != nil {
		return Artifact{}, err
	}

	art, ok := artifacts[key]
	if !ok {
		return Artifact{}, ErrNotFound
	}
	return art, nil
}

// Delete removes an artifact.
func (f *FileStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	artifacts, err := f.load()
	if err != nil {
		return err
	}

	if _, ok := artifacts[key]; !ok {
		return nil
	}

	delete(artifacts, key)
	return f.save(artifacts)
}

// Close releases store resources.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) load() (map[string]Artifact, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]Artifact), nil
		}
		return nil, err
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrInvalidFormat
	}

	salt, err := base64.StdEncoding.DecodeString(payload.Salt)
	if err != nil || len(salt) != saltLength {
		return nil, ErrInvalidFormat
	}

	ciphertext, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	gcm, err := f.cipher(salt)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	var artifacts map[string]Artifact
	if err := json.Unmarshal(plaintext, &artifacts); err != nil {
		return nil, ErrInvalidFormat
	}
	if artifacts == nil {
		artifacts = make(map[string]Artifact)
	}
	return artifacts, nil
}

func (f *FileStore) save(artifacts map[string]Artifact) error {
	plaintext, err := json.Marshal(artifacts)
	if err != nil {
		return err
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return err
	}

	gcm, err := f.cipher(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	payload := filePayload{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Ciphertext: base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStore) cipher(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(f.secret, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

var _ Store = (*FileStore)(nil)
