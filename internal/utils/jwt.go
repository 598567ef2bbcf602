package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

// Token audiences. Each kind of token is only accepted where its audience is
// expected, so a reset token cannot be replayed as an access token.
const (
	AudienceAccess  = "access"
	AudienceRefresh = "refresh"
	AudienceReset   = "password-reset"
)

// TokenConfig holds the secrets and lifetimes of the three token kinds.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

// SignedToken is a serialized JWT along with its expiry.
type SignedToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// IdentityClaims is the JWT payload of access and refresh tokens.
type IdentityClaims struct {
	model.Claims
	jwt.RegisteredClaims
}

// ResetClaims is the JWT payload of password reset tokens. The user id lives
// in the registered `sub` claim.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies access, refresh and reset tokens. It is safe
// for concurrent use.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer builds an issuer from cfg.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// IssueAccess signs a short lived access token for c.
func (i *TokenIssuer) IssueAccess(c model.Claims) (SignedToken, error) {
	return i.signIdentity(c, i.cfg.AccessSecret, AudienceAccess, i.cfg.AccessTTL)
}

// IssueRefresh signs a long lived refresh token for c. Each token gets a
// random jti so two refresh tokens for the same user never collide.
func (i *TokenIssuer) IssueRefresh(c model.Claims) (SignedToken, error) {
	return i.signIdentity(c, i.cfg.RefreshSecret, AudienceRefresh, i.cfg.RefreshTTL)
}

// IssueReset signs a password reset token bound to email and userID.
func (i *TokenIssuer) IssueReset(email, userID string) (SignedToken, error) {
	now := i.now().UTC()
	exp := now.Add(i.cfg.ResetTTL)
	claims := ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{AudienceReset},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.AccessSecret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseAccess verifies an access token and returns its identity claims.
func (i *TokenIssuer) ParseAccess(raw string) (model.Claims, error) {
	return i.parseIdentity(raw, i.cfg.AccessSecret, AudienceAccess)
}

// ParseRefresh verifies a refresh token's signature and expiry. Whether the
// token is still the user's current one is checked against the store by the
// auth flow.
func (i *TokenIssuer) ParseRefresh(raw string) (model.Claims, error) {
	return i.parseIdentity(raw, i.cfg.RefreshSecret, AudienceRefresh)
}

// ParseReset verifies a password reset token.
func (i *TokenIssuer) ParseReset(raw string) (ResetClaims, error) {
	var claims ResetClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, hmacKey(i.cfg.AccessSecret), i.parserOptions(AudienceReset)...); err != nil {
		return ResetClaims{}, invalidToken(err)
	}
	if claims.Email == "" {
		return ResetClaims{}, errs.New(errs.ErrInvalidToken, errs.MsgInvalidToken)
	}
	return claims, nil
}

func (i *TokenIssuer) signIdentity(c model.Claims, secret, aud string, ttl time.Duration) (SignedToken, error) {
	now := i.now().UTC()
	exp := now.Add(ttl)
	claims := IdentityClaims{
		Claims: c,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.ID,
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

func (i *TokenIssuer) parseIdentity(raw, secret, aud string) (model.Claims, error) {
	var claims IdentityClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, hmacKey(secret), i.parserOptions(aud)...); err != nil {
		return model.Claims{}, invalidToken(err)
	}
	if claims.Claims.ID == "" || claims.Claims.Email == "" {
		return model.Claims{}, errs.New(errs.ErrInvalidToken, errs.MsgInvalidToken)
	}
	return claims.Claims, nil
}

func (i *TokenIssuer) parserOptions(aud string) []jwt.ParserOption {
	return []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(aud),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
}

// hmacKey returns the key func used by the parser. Non-HMAC algorithms are
// rejected before the key is handed out.
func hmacKey(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}
}

func invalidToken(cause error) error {
	return &tokenError{cause: cause}
}

// tokenError keeps the jwt cause for logging while reporting ErrInvalidToken.
type tokenError struct{ cause error }

func (e *tokenError) Error() string { return errs.MsgInvalidToken }

func (e *tokenError) Is(target error) bool { return target == errs.ErrInvalidToken }

func (e *tokenError) Unwrap() error { return e.cause }

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. bcrypt only reads the first 72 bytes of its input and refresh JWTs
// share a long common prefix, so the digest is what gets bcrypt-hashed.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
