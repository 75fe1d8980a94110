package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrVerifyOnly is returned by GenerateToken when the service holds only a
// verification key.
var ErrVerifyOnly = errors.New("auth: no signing key configured")

// JWTConfig selects the key material used to verify member and staff tokens.
// An RSA public key (PEM or file) wins over the shared secret. PrivateKeyPEM
// is only needed by tooling that mints tokens.
type JWTConfig struct {
	Secret        string
	PublicKeyPEM  string
	PublicKeyFile string
	PrivateKeyPEM string
	Issuer        string
	Expiration    time.Duration
	Leeway        time.Duration
}

// JWTService verifies bearer tokens and, when it has a signing key, issues them.
type JWTService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	ttl       time.Duration
	parser    *jwt.Parser
}

// NewJWTService builds the service from cfg. Tokens must carry an expiry, the
// configured issuer, and the algorithm matching the key type.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.PublicKeyPEM == "" && cfg.PublicKeyFile != "" {
		raw, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("auth: read public key: %w", err)
		}
		cfg.PublicKeyPEM = string(raw)
	}

	s := &JWTService{issuer: cfg.Issuer, ttl: cfg.Expiration}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse private key: %w", err)
		}
		s.method, s.signKey, s.verifyKey = jwt.SigningMethodRS256, key, &key.PublicKey
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("auth: parse public key: %w", err)
		}
		s.method, s.verifyKey = jwt.SigningMethodRS256, key
	case cfg.Secret != "":
		s.method, s.signKey, s.verifyKey = jwt.SigningMethodHS256, []byte(cfg.Secret), []byte(cfg.Secret)
	default:
		return nil, errors.New("auth: a public key or a shared secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	s.parser = jwt.NewParser(opts...)
	return s, nil
}

// GenerateToken issues a token for subject. The credit service never calls
// it; it exists for local tooling and tests.
func (s *JWTService) GenerateToken(subject, document string, roles []string) (string, error) {
	if s.signKey == nil {
		return "", ErrVerifyOnly
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Document: document,
		Roles:    roles,
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	}); err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}
	return claims, nil
}
