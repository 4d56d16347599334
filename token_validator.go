package blog

// TokenValidator is the read side of TokenService: anything that can turn a
// raw token string into claims. The identity resolver depends on this rather
// than on a concrete signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidatorFunc adapts a function into a TokenValidator.
type TokenValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the TokenValidator interface.
func (f TokenValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// MultiTokenValidator chains validators, accepting a token when any of them
// does. A malformed verdict moves on to the next validator; every other
// failure (expired, missing subject) is final, so a token signed with a known
// key never gets a second opinion.
type MultiTokenValidator struct {
	chain []TokenValidator
}

// NewMultiTokenValidator drops nil entries and returns a composite validator.
func NewMultiTokenValidator(validators ...TokenValidator) *MultiTokenValidator {
	chain := make([]TokenValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			chain = append(chain, v)
		}
	}
	return &MultiTokenValidator{chain: chain}
}

// Validate satisfies the TokenValidator interface.
func (m *MultiTokenValidator) Validate(tokenString string) (AuthClaims, error) {
	var lastErr error
	for _, v := range m.chain {
		claims, err := v.Validate(tokenString)
		if err == nil {
			return claims, nil
		}
		if !IsMalformedError(err) {
			return nil, err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrTokenMalformed
	}
	return nil, lastErr
}

// NewRotationValidator builds the validator for a signing-key rotation:
// tokens signed with the active key or with any key in previousKeys still
// verify, while issuance stays on the active service alone. With no previous
// keys the active service is returned as-is.
func NewRotationValidator(active TokenService, cfg Config, previousKeys []string, logger Logger) (TokenValidator, error) {
	if len(previousKeys) == 0 {
		return active, nil
	}

	chain := []TokenValidator{active}
	for _, key := range previousKeys {
		svc, err := NewTokenService(
			[]byte(key),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			cfg.GetAudience(),
			logger,
		)
		if err != nil {
			return nil, err
		}
		chain = append(chain, svc)
	}

	return NewMultiTokenValidator(chain...), nil
}
