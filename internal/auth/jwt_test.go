package auth

import (
	"testing"
	"time"

	"vox-console/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func newManager(t *testing.T, defaultClient string) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:       "secret",
		JWTAudience:     "authenticated",
		DefaultClientID: defaultClient,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndIdentify(t *testing.T) {
	m := newManager(t, "")
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, time.Hour, Identity{UserID: "user-1", Email: "a@b.c", ClientID: "client-1", Role: "owner"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := m.Identify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.UserID != "user-1" || id.ClientID != "client-1" || id.Role != "owner" || id.Email != "a@b.c" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestIdentify_DefaultClientFallback(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	tok, err := newManager(t, "").Issue(now, time.Hour, Identity{UserID: "u"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := newManager(t, "").Identify(tok, now); err != ErrNoClient {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	id, err := newManager(t, "dev-client").Identify(tok, now)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.ClientID != "dev-client" {
		t.Fatalf("expected default client, got %q", id.ClientID)
	}
}

func TestVerify_Rejections(t *testing.T) {
	m := newManager(t, "c")
	now := time.Unix(1700000000, 0).UTC()

	sign := func(claims Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}, Role: DBRoleAuthenticated}

	if _, err := m.Verify(sign(valid, jwt.SigningMethodHS256, []byte("secret")), now); err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}

	cases := map[string]string{}

	cases["wrong secret"] = sign(valid, jwt.SigningMethodHS256, []byte("other"))
	cases["wrong alg"] = sign(valid, jwt.SigningMethodHS512, []byte("secret"))

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	cases["expired"] = sign(expired, jwt.SigningMethodHS256, []byte("secret"))

	noExp := valid
	noExp.ExpiresAt = nil
	cases["no exp"] = sign(noExp, jwt.SigningMethodHS256, []byte("secret"))

	anon := valid
	anon.Audience = jwt.ClaimStrings{"anon"}
	cases["wrong audience"] = sign(anon, jwt.SigningMethodHS256, []byte("secret"))

	noSub := valid
	noSub.Subject = ""
	cases["no subject"] = sign(noSub, jwt.SigningMethodHS256, []byte("secret"))

	cases["garbage"] = "not.a.jwt"

	for name, tok := range cases {
		if _, err := m.Verify(tok, now); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}

func TestVerify_LeewayTolerance(t *testing.T) {
	m := newManager(t, "c")
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, time.Minute, Identity{UserID: "u", ClientID: "c"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(tok, now.Add(time.Minute+20*time.Second)); err != nil {
		t.Fatalf("expected leeway to accept, got %v", err)
	}
	if _, err := m.Verify(tok, now.Add(2*time.Minute)); err == nil {
		t.Fatalf("expected expiry beyond leeway")
	}
}

func TestIdentify_ServiceRole(t *testing.T) {
	m := newManager(t, "c")
	now := time.Unix(1700000000, 0).UTC()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "svc",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}, Role: DBRoleService, AppMetadata: AppMetadata{ClientID: "c2", Role: "viewer"}}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	id, err := m.Identify(tok, now)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.Role != DBRoleService {
		t.Fatalf("expected service role, got %q", id.Role)
	}
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error")
	}
}
