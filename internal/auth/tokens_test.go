package auth

import (
	"errors"
	"testing"
	"time"
)

const (
	testAccessSecret  = "access-secret-for-tests-123"
	testRefreshSecret = "refresh-secret-for-tests-123"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenServiceRejectsShortSecrets(t *testing.T) {
	if _, err := NewTokenService("short", testRefreshSecret, 0, 0); err == nil {
		t.Fatal("expected error for short access secret")
	}
	if _, err := NewTokenService(testAccessSecret, "short", 0, 0); err == nil {
		t.Fatal("expected error for short refresh secret")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueAccessToken("user-1")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	subject, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if subject != "user-1" {
		t.Fatalf("expected subject user-1, got %q", subject)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueRefreshToken("user-2")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}

	subject, err := svc.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if subject != "user-2" {
		t.Fatalf("expected subject user-2, got %q", subject)
	}
}

func TestAccessAndRefreshSecretsAreIndependent(t *testing.T) {
	svc := newTestService(t)

	access, err := svc.IssueAccessToken("user-3")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	// An access token must not pass refresh verification and vice versa.
	if _, err := svc.VerifyRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for cross verification, got %v", err)
	}

	refresh, err := svc.IssueRefreshToken("user-3")
	if err != nil {
		t.Fatalf("IssueRefreshToken: %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for cross verification, got %v", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	svc := newTestService(t)

	issuedAt := time.Now().Add(-time.Hour)
	svc.NowFunc = func() time.Time { return issuedAt }

	token, err := svc.IssueAccessToken("user-4")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	svc.NowFunc = nil
	if _, err := svc.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTamperedTokenIsRejected(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueAccessToken("user-5")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyAccess(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenFromDifferentSecretIsRejected(t *testing.T) {
	svc := newTestService(t)

	other, err := NewTokenService("another-access-secret-xyz", "another-refresh-secret-xyz", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.IssueAccessToken("user-6")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign token, got %v", err)
	}
}

func TestIssuePairProducesDistinctTokens(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.IssuePair("user-7")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens in the pair")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
}
