package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid covers malformed tokens, bad signatures, and tokens
	// without a subject claim.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired means the signature checked out but the expiry has
	// passed. Verify still returns the decoded claims alongside it so
	// the caller can act on the subject.
	ErrExpired = errors.New("expired token")
)

// Claims is the decoded payload of a session token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Codec signs and verifies session tokens as HS256 JWTs with a shared
// symmetric secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec signing with the given secret. Tokens issued
// by Issue expire ttl after issuance.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue mints a signed token for the given subject.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry.
//
// A forged or malformed token fails with ErrInvalid and no claims. A
// token whose signature is valid but whose expiry has passed fails with
// ErrExpired, and the claims are returned anyway: the subject of an
// expired session is still trustworthy (the signature proves the server
// minted it) and the session manager needs it for cleanup.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, c.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && parsed != nil {
			if claims := decode(parsed); claims != nil {
				return claims, ErrExpired
			}
		}
		return nil, ErrInvalid
	}

	claims := decode(parsed)
	if claims == nil {
		return nil, ErrInvalid
	}
	return claims, nil
}

func (c *Codec) keyFunc(tok *jwt.Token) (any, error) {
	if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
	}
	return c.secret, nil
}

// decode pulls the subject and expiry out of a parsed token. Returns
// nil if the subject is missing.
func decode(tok *jwt.Token) *Claims {
	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}

	claims := &Claims{Subject: sub}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims
}
