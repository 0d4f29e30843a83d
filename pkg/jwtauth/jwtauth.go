package jwtauth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexsuite/authcore/pkg/authflow"
)

// minKeyLength is the minimum HS256 signing key size in bytes.
const minKeyLength = 32

// Config defines JWT validator parameters.
type Config struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:""`
	TokenTTL   time.Duration `env:"JWT_TOKEN_TTL" envDefault:"15m"`
}

type claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Validator validates HS256 bearer tokens and maps them to identities.
// It holds no session state.
type Validator struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// New creates a validator from the config.
func New(cfg Config) (*Validator, error) {
	if len(cfg.SigningKey) < minKeyLength {
		return nil, ErrKeyTooShort
	}
	return &Validator{
		key:    []byte(cfg.SigningKey),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
	}, nil
}

// ValidateToken implements authflow.TokenValidator. Signature, expiry
// and (when configured) issuer are all checked; the subject claim must
// be a UUID.
func (v *Validator) ValidateToken(ctx context.Context, token string) (authflow.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return authflow.Identity{}, errors.Join(ErrInvalidToken, err)
	}

	if c.Subject == "" {
		return authflow.Identity{}, ErrMissingSubject
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return authflow.Identity{}, errors.Join(ErrMissingSubject, err)
	}

	return authflow.Identity{UserID: userID, Username: c.Username}, nil
}

// Issue signs a token for the identity with the configured TTL.
func (v *Validator) Issue(identity authflow.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	})

	signed, err := token.SignedString(v.key)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}
