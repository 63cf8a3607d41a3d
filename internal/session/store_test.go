package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	ravenapi "github.com/aim-ba/ravenlink/internal/api"
	"github.com/aim-ba/ravenlink/internal/model"
)

type fakeAPI struct {
	signIns      int
	signUps      int
	currentCalls int
	signOuts     int

	session model.Session
	profile model.Profile
	err     error
}

func (f *fakeAPI) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	f.signIns++
	return f.session, f.err
}

func (f *fakeAPI) SignUp(ctx context.Context, email, password string, role model.Role, organizationName string) (model.Session, error) {
	f.signUps++
	return f.session, f.err
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (model.Profile, error) {
	f.currentCalls++
	return f.profile, f.err
}

func (f *fakeAPI) SignOut(ctx context.Context) error {
	f.signOuts++
	return nil
}

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func testSession(t *testing.T, ttl time.Duration) model.Session {
	return model.Session{
		Profile: model.Profile{
			UserID: "u1",
			Email:  "pat@example.com",
			Role:   model.RoleContractor,
		},
		AccessToken: signedToken(t, ttl),
	}
}

func TestPolicyViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		count    int
	}{
		{"acceptable", "Passw0rd", 0},
		{"too short", "Pw0rd", 1},
		{"no lowercase", "PASSW0RD", 1},
		{"no uppercase", "passw0rd", 1},
		{"no digit", "Password", 1},
		{"everything wrong", "pw", 3},
		{"empty", "", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolicyViolations(tt.password); len(got) != tt.count {
				t.Fatalf("password %q: expected %d violations, got %v", tt.password, tt.count, got)
			}
		})
	}
}

func TestSignUpBlockedByPolicyBeforeNetwork(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, filepath.Join(t.TempDir(), "session.json"))

	_, err := store.SignUp(context.Background(), "pat@example.com", "weak", model.RoleContractor, "")
	var policyErr *PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
	if api.signUps != 0 {
		t.Fatalf("policy violation still reached the network")
	}
}

func TestSignUpProponentNeedsOrganization(t *testing.T) {
	api := &fakeAPI{}
	store := NewStore(api, filepath.Join(t.TempDir(), "session.json"))

	_, err := store.SignUp(context.Background(), "org@example.com", "Passw0rdd", model.RoleProjectProponent, "")
	if !errors.Is(err, ErrOrganizationRequired) {
		t.Fatalf("expected ErrOrganizationRequired, got %v", err)
	}
	if api.signUps != 0 {
		t.Fatalf("missing organization still reached the network")
	}

	api.session = testSession(t, time.Hour)
	if _, err := store.SignUp(context.Background(), "org@example.com", "Passw0rdd", model.RoleProjectProponent, "Northern Roads"); err != nil {
		t.Fatalf("sign up with organization: %v", err)
	}
}

func TestSignUpRejectsUnknownRole(t *testing.T) {
	store := NewStore(&fakeAPI{}, filepath.Join(t.TempDir(), "session.json"))
	if _, err := store.SignUp(context.Background(), "x@example.com", "Passw0rdd", model.Role("superuser"), ""); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSignInPersistsAndRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	sess := testSession(t, time.Hour)

	api := &fakeAPI{session: sess, profile: sess.Profile}
	store := NewStore(api, path)

	got, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got.Email != "pat@example.com" {
		t.Fatalf("session not returned: %+v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("token file not written: %v", err)
	}
	if !store.IsContractor() || store.IsAdmin() {
		t.Fatalf("role helpers wrong")
	}

	// A later run restores silently and re-confirms with the API.
	restored := NewStore(api, path)
	restoredSess, ok := restored.Restore(context.Background())
	if !ok {
		t.Fatalf("expected silent restore to succeed")
	}
	if restoredSess.UserID != "u1" || restored.AccessToken() != sess.AccessToken {
		t.Fatalf("restored session mismatch: %+v", restoredSess)
	}
	if api.currentCalls != 1 {
		t.Fatalf("restore must confirm the token, got %d profile calls", api.currentCalls)
	}
}

func TestRestoreDropsExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	api := &fakeAPI{session: testSession(t, -time.Minute)}
	store := NewStore(api, path)

	if _, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	restored := NewStore(api, path)
	if _, ok := restored.Restore(context.Background()); ok {
		t.Fatalf("expired token must not restore")
	}
	if api.currentCalls != 0 {
		t.Fatalf("expired token still hit the network")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expired token file must be cleared")
	}
}

func TestRestoreClearsWhenTokenRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	api := &fakeAPI{session: testSession(t, time.Hour)}
	store := NewStore(api, path)

	if _, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	api.err = fmt.Errorf("%w: token revoked", ravenapi.ErrAuthFailed)
	restored := NewStore(api, path)
	if _, ok := restored.Restore(context.Background()); ok {
		t.Fatalf("rejected token must not restore")
	}
	if _, restoredOK := restored.Current(); restoredOK {
		t.Fatalf("rejected restore left a session in memory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("rejected token file must be cleared")
	}
}

func TestRestoreKeepsTokenFileOnTransientFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	sess := testSession(t, time.Hour)
	api := &fakeAPI{session: sess, profile: sess.Profile}
	store := NewStore(api, path)

	if _, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	api.err = &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	restored := NewStore(api, path)
	if _, ok := restored.Restore(context.Background()); ok {
		t.Fatalf("unreachable API must not restore")
	}
	if _, inMemory := restored.Current(); inMemory {
		t.Fatalf("failed restore left a session in memory")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("transient failure must keep the token file: %v", err)
	}

	// Once the API is reachable again the same file restores.
	api.err = nil
	if _, ok := restored.Restore(context.Background()); !ok {
		t.Fatalf("restore after recovery failed")
	}
}

func TestRestoreWithoutTokenFile(t *testing.T) {
	store := NewStore(&fakeAPI{}, filepath.Join(t.TempDir(), "session.json"))
	if _, ok := store.Restore(context.Background()); ok {
		t.Fatalf("restore with no stored token must report not signed in")
	}
}

func TestSignInSucceedsWhenTokenFileUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	// A regular file in the directory position makes persist fail.
	path := filepath.Join(blocker, "session.json")

	api := &fakeAPI{session: testSession(t, time.Hour)}
	store := NewStore(api, path)

	sess, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd")
	if err != nil {
		t.Fatalf("persist failure must not fail sign in: %v", err)
	}
	if sess.Email != "pat@example.com" {
		t.Fatalf("session not returned: %+v", sess)
	}
	if store.AccessToken() == "" {
		t.Fatalf("signed-in session missing from memory")
	}
}

func TestSignOutTearsDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	api := &fakeAPI{session: testSession(t, time.Hour)}
	store := NewStore(api, path)

	if _, err := store.SignIn(context.Background(), "pat@example.com", "Passw0rdd"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	store.SignOut(context.Background())
	if api.signOuts != 1 {
		t.Fatalf("server-side sign out not attempted")
	}
	if store.AccessToken() != "" {
		t.Fatalf("token survived sign out")
	}
	if _, ok := store.Current(); ok {
		t.Fatalf("session survived sign out")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file survived sign out")
	}
}
