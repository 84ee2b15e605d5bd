package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret the codec accepts (256 bits).
const MinSecretLength = 32

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	ErrWeakSecret = errors.New("jwtx: signing secret must be at least 32 bytes")
)

// Codec issues and verifies session tokens.
type Codec interface {
	Issue(p Payload) (string, error)
	Verify(token string) (Payload, error)
}

// HS256Codec signs session tokens with a single shared HMAC secret.
type HS256Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type CodecOption func(*HS256Codec)

// WithIssuer sets the iss claim; verification then requires it to match.
func WithIssuer(issuer string) CodecOption {
	return func(c *HS256Codec) { c.issuer = issuer }
}

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *HS256Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(c *HS256Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewHS256Codec returns a codec for secret. There is deliberately no default
// secret: an empty or short one is a configuration error.
func NewHS256Codec(secret []byte, opts ...CodecOption) (*HS256Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	c := &HS256Codec{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL is the lifetime given to issued tokens.
func (c *HS256Codec) TTL() time.Duration { return c.ttl }

// Issue signs p with an expiry of now+TTL.
func (c *HS256Codec) Issue(p Payload) (string, error) {
	if p.UserID == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}
	claims := NewSessionClaims(p, c.issuer, c.ttl, c.now().UTC())
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, algorithm, expiry and schema. Any failure returns
// a zero Payload together with one of the package sentinel errors.
func (c *HS256Codec) Verify(token string) (Payload, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims SessionClaims
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Payload{}, classify(err)
	}
	return claims.Payload(), nil
}

// classify maps golang-jwt's error tree onto our sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrInvalidClaim):
		return ErrInvalidClaim
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		// WithValidMethods reports a foreign alg (including "none") here too.
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
