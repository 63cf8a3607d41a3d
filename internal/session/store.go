// Package session owns the signed-in identity. The store is explicitly
// constructed and injected; nothing reaches into shared globals. Init is a
// silent restore from the token file, teardown clears both memory and disk.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aim-ba/ravenlink/internal/api"
	"github.com/aim-ba/ravenlink/internal/model"
)

var (
	ErrNotSignedIn = errors.New("session: not signed in")

	// ErrOrganizationRequired: project proponent accounts must name their
	// organization at sign-up.
	ErrOrganizationRequired = errors.New("session: organization name is required for project proponents")

	ErrInvalidRole = errors.New("session: unknown role")
)

// API is the slice of the platform client the store needs.
type API interface {
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignUp(ctx context.Context, email, password string, role model.Role, organizationName string) (model.Session, error)
	CurrentUser(ctx context.Context) (model.Profile, error)
	SignOut(ctx context.Context) error
}

// Store holds the current session and persists its token material to a
// single JSON file so a later run can restore it silently.
type Store struct {
	api     API
	path    string
	current *model.Session
}

func NewStore(api API, path string) *Store {
	return &Store{api: api, path: path}
}

// Current returns the active session, if any.
func (s *Store) Current() (model.Session, bool) {
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// AccessToken implements the client's token source. Empty when signed out.
func (s *Store) AccessToken() string {
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

func (s *Store) IsAdmin() bool            { return s.hasRole(model.RoleAdmin) }
func (s *Store) IsProjectProponent() bool { return s.hasRole(model.RoleProjectProponent) }
func (s *Store) IsContractor() bool       { return s.hasRole(model.RoleContractor) }

func (s *Store) hasRole(r model.Role) bool {
	return s.current != nil && s.current.Role == r
}

// SignIn authenticates and persists the resulting session. On rejection
// nothing is retained. Persisting is best effort: an unwritable token file
// costs the next run's silent restore, not this run's authentication.
func (s *Store) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	sess, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}
	s.current = &sess
	_ = s.persist()
	return sess, nil
}

// SignUp validates the password policy and role client-side before any
// network call, then registers and persists the session.
func (s *Store) SignUp(ctx context.Context, email, password string, role model.Role, organizationName string) (model.Session, error) {
	if violations := PolicyViolations(password); len(violations) > 0 {
		return model.Session{}, &PolicyError{Violations: violations}
	}
	if !role.Valid() {
		return model.Session{}, ErrInvalidRole
	}
	if role == model.RoleProjectProponent && organizationName == "" {
		return model.Session{}, ErrOrganizationRequired
	}

	sess, err := s.api.SignUp(ctx, email, password, role, organizationName)
	if err != nil {
		return model.Session{}, err
	}
	s.current = &sess
	_ = s.persist()
	return sess, nil
}

// SignOut tears the session down. The server-side revocation is best
// effort; the local state is cleared no matter what.
func (s *Store) SignOut(ctx context.Context) {
	if s.current != nil {
		_ = s.api.SignOut(ctx)
	}
	s.Clear()
}

// Clear drops the in-memory session and removes the token file.
func (s *Store) Clear() {
	s.current = nil
	if s.path != "" {
		_ = os.Remove(s.path)
	}
}

// Restore attempts a silent restore from the token file: load, drop expired
// tokens, then confirm the token is still accepted by fetching the profile.
// Restore reports "not restored" without an error; a stale token is an
// expected condition, not a fault. Only a rejected token destroys the stored
// state: a transport failure keeps the file so a later run can try again.
func (s *Store) Restore(ctx context.Context) (model.Session, bool) {
	sess, err := s.read()
	if err != nil {
		s.Clear()
		return model.Session{}, false
	}
	if tokenExpired(sess.AccessToken) {
		s.Clear()
		return model.Session{}, false
	}

	s.current = &sess
	profile, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.current = nil
		if errors.Is(err, api.ErrAuthFailed) {
			s.Clear()
		}
		return model.Session{}, false
	}

	sess.Profile = profile
	s.current = &sess
	_ = s.persist()
	return sess, true
}

// RefreshProfile re-reads the profile for the signed-in user.
func (s *Store) RefreshProfile(ctx context.Context) error {
	if s.current == nil {
		return ErrNotSignedIn
	}
	profile, err := s.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	s.current.Profile = profile
	return s.persist()
}

func (s *Store) persist() error {
	if s.path == "" || s.current == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) read() (model.Session, error) {
	if s.path == "" {
		return model.Session{}, ErrNotSignedIn
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.Session{}, err
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, err
	}
	if sess.AccessToken == "" {
		return model.Session{}, ErrNotSignedIn
	}
	return sess, nil
}

// tokenExpired decodes the token's exp claim without verifying the
// signature. The client holds no signing key; the server re-validates every
// request, this check only avoids a round trip with a token known to be
// dead. Tokens without an exp claim are left for the server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
