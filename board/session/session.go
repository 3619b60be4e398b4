// Package session owns the authenticated identity and bearer credential.
// The two are persisted under separate keys so they can be invalidated
// independently, but the store only ever writes or removes them together:
// a credential without an identity (or the reverse) is read as logged out.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"juicyboard/client-go/board/kvstore"
	"juicyboard/client-go/board/types"
)

const (
	keyIdentity = "user"
	keyToken    = "access_token"
)

type Session struct {
	Identity types.Identity
	Token    string
}

type Store struct {
	kv  *kvstore.Store
	now func() time.Time
}

func New(kv *kvstore.Store) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Save persists the identity and credential as one transactional write.
func (s *Store) Save(ctx context.Context, id types.Identity, token string) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.kv.SetMany(ctx, map[string]string{
		keyIdentity: string(b),
		keyToken:    token,
	})
}

// UpdateIdentity rewrites the identity half of an existing session, keeping
// the stored credential. It is a no-op when no session is present, so the
// pair invariant cannot be broken by a late profile update.
func (s *Store) UpdateIdentity(ctx context.Context, id types.Identity) error {
	cur := s.Current(ctx)
	if cur == nil {
		return nil
	}
	return s.Save(ctx, id, cur.Token)
}

// Current returns the stored session, or nil when logged out. It never
// fails: a read error, a corrupt identity record, a missing half of the
// identity/credential pair, and an expired token are all just "no session".
func (s *Store) Current(ctx context.Context) *Session {
	raw, ok, err := s.kv.Get(ctx, keyIdentity)
	if err != nil || !ok {
		return nil
	}
	token, ok, err := s.kv.Get(ctx, keyToken)
	if err != nil || !ok || token == "" {
		return nil
	}

	var id types.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil
	}
	if tokenExpired(token, s.now()) {
		return nil
	}
	return &Session{Identity: id, Token: token}
}

// Clear removes identity and credential in one transaction.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.DeleteMany(ctx, keyIdentity, keyToken)
}

// Token implements the gateway's credential source.
func (s *Store) Token(ctx context.Context) string {
	cur := s.Current(ctx)
	if cur == nil {
		return ""
	}
	return cur.Token
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client holds no signing key and the backend remains the
// authority. Tokens that are not JWTs, or carry no exp claim, pass.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
