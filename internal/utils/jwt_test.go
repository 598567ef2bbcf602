package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/entityhub/internal/errs"
	"github.com/iliyamo/entityhub/internal/model"
)

func newIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      15 * time.Minute,
	})
}

var alice = model.Claims{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.IssueAccess(alice)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	got, err := iss.ParseAccess(tok.Token)
	require.NoError(t, err)
	require.Equal(t, alice, got)
}

func TestTokenIssuer_AudiencesDoNotMix(t *testing.T) {
	iss := newIssuer()
	access, err := iss.IssueAccess(alice)
	require.NoError(t, err)
	refresh, err := iss.IssueRefresh(alice)
	require.NoError(t, err)
	reset, err := iss.IssueReset(alice.Email, alice.ID)
	require.NoError(t, err)

	_, err = iss.ParseRefresh(access.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
	_, err = iss.ParseAccess(refresh.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
	_, err = iss.ParseAccess(reset.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
	_, err = iss.ParseReset(access.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	got, err := iss.ParseRefresh(refresh.Token)
	require.NoError(t, err)
	require.Equal(t, alice, got)

	rc, err := iss.ParseReset(reset.Token)
	require.NoError(t, err)
	require.Equal(t, alice.Email, rc.Email)
	require.Equal(t, alice.ID, rc.Subject)
}

func TestTokenIssuer_RefreshTokensAreUnique(t *testing.T) {
	iss := newIssuer()
	a, err := iss.IssueRefresh(alice)
	require.NoError(t, err)
	b, err := iss.IssueRefresh(alice)
	require.NoError(t, err)
	require.NotEqual(t, a.Token, b.Token)
}

func TestTokenIssuer_ExpiredAndTampered(t *testing.T) {
	iss := newIssuer()
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := iss.IssueAccess(alice)
	require.NoError(t, err)
	iss.now = time.Now
	_, err = iss.ParseAccess(old.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	fresh, err := iss.IssueAccess(alice)
	require.NoError(t, err)
	_, err = iss.ParseAccess(fresh.Token + "x")
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	other := NewTokenIssuer(TokenConfig{AccessSecret: "other", AccessTTL: time.Minute})
	_, err = other.ParseAccess(fresh.Token)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	claims := IdentityClaims{
		Claims: alice,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{AudienceAccess},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = newIssuer().ParseAccess(raw)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("abc")
	require.Len(t, h, 64)
	require.Equal(t, h, HashRefreshRaw("abc"))
	require.NotEqual(t, h, HashRefreshRaw("abd"))
}
