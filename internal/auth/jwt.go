package auth

import (
	"errors"
	"time"

	"vox-console/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager verifies Supabase session tokens.
type Manager struct {
	secret          []byte
	issuer          string
	audience        string
	defaultClientID string
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("SUPABASE_JWT_SECRET is required")
	}
	return &Manager{
		secret:          []byte(cfg.JWTSecret),
		issuer:          cfg.JWTIssuer,
		audience:        cfg.JWTAudience,
		defaultClientID: cfg.DefaultClientID,
	}, nil
}

var (
	ErrSubjectMissing = errors.New("sub missing")
	ErrNoClient       = errors.New("no client_id claim and no default client")
)

/* ===================== VERIFY TOKEN ===================== */

func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}
	if err := jwt.NewValidator(opts...).Validate(claims.RegisteredClaims); err != nil {
		return Claims{}, err
	}

	if claims.Subject == "" {
		return Claims{}, ErrSubjectMissing
	}
	return claims, nil
}

// Identify verifies tokenString and resolves the tenant.
// A session without a client_id claim falls back to the configured default client.
func (m *Manager) Identify(tokenString string, now time.Time) (Identity, error) {
	claims, err := m.Verify(tokenString, now)
	if err != nil {
		return Identity{}, err
	}
	clientID := claims.AppMetadata.ClientID
	if clientID == "" {
		clientID = m.defaultClientID
	}
	if clientID == "" {
		return Identity{}, ErrNoClient
	}
	role := claims.AppMetadata.Role
	if claims.Role == DBRoleService {
		role = DBRoleService
	}
	return Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		ClientID: clientID,
		Role:     role,
	}, nil
}

/* ===================== ISSUE (local dev and tests) ===================== */

// Issue signs a Supabase-shaped access token. Production sessions are minted by Supabase;
// this exists for local development against a stub backend.
func (m *Manager) Issue(now time.Time, ttl time.Duration, id Identity) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email:       id.Email,
		Role:        DBRoleAuthenticated,
		AppMetadata: AppMetadata{ClientID: id.ClientID, Role: id.Role},
		SessionID:   uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
