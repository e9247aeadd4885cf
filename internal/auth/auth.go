// Package auth provides the reference token Authenticator. Tokens map
// to identities with an explicit role; the registry core consumes only
// the resolved identity and never inspects credentials itself. The
// token table persists as a YAML file next to the data directory.
package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/depot/pkg/types"
)

var _ types.Authenticator = (*FileAuthenticator)(nil)

// tokenFile is the on-disk shape of the token table.
type tokenFile struct {
	Tokens map[string]types.Identity `yaml:"tokens"`
}

// FileAuthenticator resolves bearer tokens against a YAML-backed
// table. Safe for concurrent use.
type FileAuthenticator struct {
	mu     sync.RWMutex
	path   string
	tokens map[string]types.Identity
}

// Open loads the token table at path. A missing file is an empty
// table, not an error; it is created on the first minted token.
func Open(path string) (*FileAuthenticator, error) {
	a := &FileAuthenticator{
		path:   path,
		tokens: make(map[string]types.Identity),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	if tf.Tokens != nil {
		a.tokens = tf.Tokens
	}
	return a, nil
}

// Authenticate resolves token to an identity. An empty or unknown
// token fails with ErrUnauthenticated.
func (a *FileAuthenticator) Authenticate(ctx context.Context, token string) (types.Identity, error) {
	if token == "" {
		return types.Identity{}, types.ErrUnauthenticated
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	id, ok := a.tokens[token]
	if !ok {
		return types.Identity{}, types.ErrUnauthenticated
	}
	return id, nil
}

// NewToken mints a token for a fresh identity with the given role and
// persists the table. Owner IDs are UUID v7 so they sort by creation
// time; tokens are random UUID v4 strings.
func (a *FileAuthenticator) NewToken(role types.Role) (string, types.Identity, error) {
	ownerID, err := uuid.NewV7()
	if err != nil {
		return "", types.Identity{}, fmt.Errorf("generating owner ID: %w", err)
	}
	token := uuid.NewString()
	id := types.Identity{OwnerID: ownerID.String(), Role: role}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens[token] = id
	if err := a.save(); err != nil {
		delete(a.tokens, token)
		return "", types.Identity{}, err
	}
	return token, id, nil
}

// save writes the table atomically: temp file in the same directory,
// then rename. Caller holds the write lock.
func (a *FileAuthenticator) save() error {
	data, err := yaml.Marshal(tokenFile{Tokens: a.tokens})
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("restrict token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.path); err != nil {
		return fmt.Errorf("finalize token file: %w", err)
	}
	return nil
}
