package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	svc := NewTokenService(repo, nil, "secret", time.Hour)

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	id, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != "u1" || id.Role != domain.RoleReader {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestTokenService_Verify_UsesStoredRole(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	svc := NewTokenService(repo, nil, "secret", time.Hour)

	token, _ := svc.Issue(user)
	repo.byID["u1"].Role = domain.RoleVendor

	id, err := svc.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.Role != domain.RoleVendor {
		t.Fatalf("expected stored role vendor, got %s", id.Role)
	}
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	svc := NewTokenService(repo, nil, "secret", time.Hour)
	ctx := context.Background()

	good, _ := svc.Issue(user)

	other := NewTokenService(repo, nil, "other-secret", time.Hour)
	forged, _ := other.Issue(user)

	expired := NewTokenService(repo, nil, "secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue(user)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"}).SignedString([]byte("secret"))

	cases := map[string]string{
		"garbage":   "not-a-token",
		"truncated": good[:len(good)-4],
		"forged":    forged,
		"expired":   stale,
		"alg none":  none,
		"no exp":    noExp,
	}
	for name, token := range cases {
		if _, err := svc.Verify(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenService_Verify_DeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	svc := NewTokenService(repo, nil, "secret", time.Hour)

	token, _ := svc.Issue(user)
	delete(repo.byID, "u1")

	if _, err := svc.Verify(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Revoke(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	revoker := newStubRevoker()
	svc := NewTokenService(repo, revoker, "secret", time.Hour)
	ctx := context.Background()

	token, _ := svc.Issue(user)
	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	for _, ttl := range revoker.revoked {
		if ttl <= 0 || ttl > time.Hour {
			t.Fatalf("unexpected revocation ttl %v", ttl)
		}
	}
	if _, err := svc.Verify(ctx, token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revoke, got %v", err)
	}
}

func TestTokenService_Verify_RevocationStoreDown(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add("u1", "Alice", domain.RoleReader)
	revoker := newStubRevoker()
	svc := NewTokenService(repo, revoker, "secret", time.Hour)

	token, _ := svc.Issue(user)
	revoker.err = errors.New("connection refused")

	_, err := svc.Verify(context.Background(), token)
	if err == nil {
		t.Fatalf("expected error when revocation store is down")
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("store failure must not look like a bad token: %v", err)
	}
}
