package blog

import (
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// SimpleConfig is a plain struct implementation of Config. Use NewConfigFromEnv
// for the common case of environment-driven deployments.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration time.Duration
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string

	// PreviousSigningKeys holds retired secrets that should still verify
	// tokens during a key rotation. They are never used for issuance.
	PreviousSigningKeys []string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string             { return c.SigningKey }
func (c *SimpleConfig) GetSigningMethod() string          { return c.SigningMethod }
func (c *SimpleConfig) GetContextKey() string             { return c.ContextKey }
func (c *SimpleConfig) GetTokenExpiration() time.Duration { return c.TokenExpiration }
func (c *SimpleConfig) GetTokenLookup() string            { return c.TokenLookup }
func (c *SimpleConfig) GetAuthScheme() string             { return c.AuthScheme }
func (c *SimpleConfig) GetIssuer() string                 { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string             { return c.Audience }
func (c *SimpleConfig) GetPreviousSigningKeys() []string  { return c.PreviousSigningKeys }

// NewConfigFromEnv builds a Config from the process environment. The signing
// secret has no default: a process without JWT_SECRET must refuse to start
// rather than sign tokens with a guessable key.
func NewConfigFromEnv() (*SimpleConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSigningKey
	}

	cfg := &SimpleConfig{
		SigningKey:      secret,
		SigningMethod:   "HS256",
		ContextKey:      "user",
		TokenExpiration: DefaultTokenExpiration,
		TokenLookup:     "header:Authorization",
		AuthScheme:      "Bearer",
		Issuer:          os.Getenv("JWT_ISSUER"),
	}

	if prev := os.Getenv("JWT_SECRET_PREVIOUS"); prev != "" {
		for _, key := range strings.Split(prev, ",") {
			if key = strings.TrimSpace(key); key != "" {
				cfg.PreviousSigningKeys = append(cfg.PreviousSigningKeys, key)
			}
		}
	}

	if aud := os.Getenv("JWT_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	if raw := os.Getenv("JWT_TOKEN_EXPIRATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid JWT_TOKEN_EXPIRATION").
				WithMetadata(map[string]any{"value": raw})
		}
		cfg.TokenExpiration = d
	}

	return cfg, nil
}
