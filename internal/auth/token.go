package auth

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hconline/permission-manager/internal/shared"
)

// TokenIssuer signs and verifies HS256 bearer tokens carrying the
// authenticated identity and its effective authority set. Verification
// reconstructs the identity entirely from claims; no store lookup.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type tokenClaims struct {
	UserID      int64    `json:"uid"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
	jwtv5.RegisteredClaims
}

// Issue mints a signed token for the identity. The subject is the
// account email; uid carries the numeric id for ownership checks.
func (i *TokenIssuer) Issue(identity shared.Identity) (string, time.Time, error) {
	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)
	claims := tokenClaims{
		UserID:      identity.UserID,
		Username:    identity.Username,
		Authorities: identity.Authorities.Strings(),
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   identity.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(expiresAt),
		},
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a raw token and reconstructs the identity it carries.
func (i *TokenIssuer) Parse(raw string) (shared.Identity, error) {
	var claims tokenClaims
	_, err := jwtv5.ParseWithClaims(raw, &claims, func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwtv5.WithIssuer(i.issuer),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return shared.Identity{}, fmt.Errorf("auth: parse token: %w", err)
	}
	authorities, err := shared.AuthoritySetFromStrings(claims.Authorities)
	if err != nil {
		return shared.Identity{}, fmt.Errorf("auth: token authorities: %w", err)
	}
	return shared.Identity{
		UserID:      claims.UserID,
		Email:       claims.Subject,
		Username:    claims.Username,
		Authorities: authorities,
	}, nil
}
