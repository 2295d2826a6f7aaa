// Package auth issues and checks the bearer tokens accepted by the
// development backend.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingKeyBytes = 32

// ErrTokenNotFound is returned when revoking an unknown token.
var ErrTokenNotFound = errors.New("token not found")

// Token is the stored representation of an issued token (no raw token).
type Token struct {
	ID          int64
	Name        string
	TokenPrefix string // first 12 chars for identification
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	LastUsedAt  *time.Time
}

// TokenStore manages issued tokens in SQLite. Tokens are JWTs so clients can
// read their expiry; only a SHA-256 hash is stored.
type TokenStore struct {
	db  *sql.DB
	key []byte
	now func() time.Time
}

// NewTokenStore creates a token store. An empty signingKey generates a
// random one, so tokens issued by an earlier process still validate against
// their stored hash.
func NewTokenStore(db *sql.DB, signingKey []byte) (*TokenStore, error) {
	if len(signingKey) == 0 {
		signingKey = make([]byte, signingKeyBytes)
		if _, err := rand.Read(signingKey); err != nil {
			return nil, fmt.Errorf("generating signing key: %w", err)
		}
	}
	return &TokenStore{db: db, key: signingKey, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Issue mints a token named name. A zero ttl issues a token that never expires.
// Returns the raw token (shown once) and the stored record.
func (s *TokenStore) Issue(name string, ttl time.Duration) (string, *Token, error) {
	now := s.now()
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", nil, fmt.Errorf("generating token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:  name,
		IssuedAt: jwt.NewNumericDate(now),
		ID:       hex.EncodeToString(jti),
	}
	var expiresAt *time.Time
	if ttl > 0 {
		exp := now.Add(ttl).Truncate(time.Second)
		claims.ExpiresAt = jwt.NewNumericDate(exp)
		expiresAt = &exp
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	prefix := raw[:12]
	result, err := s.db.Exec(
		"INSERT INTO api_tokens (name, token_prefix, token_hash, expires_at) VALUES (?, ?, ?, ?)",
		name, prefix, hashToken(raw), expiresAt,
	)
	if err != nil {
		return "", nil, fmt.Errorf("storing token: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", nil, fmt.Errorf("getting token id: %w", err)
	}

	return raw, &Token{ID: id, Name: name, TokenPrefix: prefix, CreatedAt: now, ExpiresAt: expiresAt}, nil
}

// List returns all issued tokens, newest first.
func (s *TokenStore) List() (tokens []Token, err error) {
	rows, err := s.db.Query(
		"SELECT id, name, token_prefix, created_at, expires_at, last_used_at FROM api_tokens ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying tokens: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var t Token
		if err := rows.Scan(&t.ID, &t.Name, &t.TokenPrefix, &t.CreatedAt, &t.ExpiresAt, &t.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		tokens = append(tokens, t)
	}

	return tokens, rows.Err()
}

// Revoke removes a token by ID.
func (s *TokenStore) Revoke(id int64) error {
	result, err := s.db.Exec("DELETE FROM api_tokens WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrTokenNotFound
	}

	return nil
}

// Validate checks a raw token against the stored hashes and expiry.
// Returns true if valid, and updates last_used_at.
func (s *TokenStore) Validate(raw string) (bool, error) {
	now := s.now()
	result, err := s.db.Exec(
		"UPDATE api_tokens SET last_used_at = ? WHERE token_hash = ? AND (expires_at IS NULL OR expires_at > ?)",
		now, hashToken(raw), now,
	)
	if err != nil {
		return false, fmt.Errorf("validating token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}

	return rows > 0, nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
