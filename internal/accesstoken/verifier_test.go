package accesstoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "catalog/pkg/domain-errors"
)

const (
	testKey      = "catalog-test-key"
	testIssuer   = "identity"
	testAudience = "catalog"
)

func TestVerifier(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	verifier := NewVerifier(testKey, testIssuer, testAudience, WithClock(clock))
	userID := uuid.New()

	t.Run("accepts a token it signed", func(t *testing.T) {
		raw, err := verifier.Sign(userID, []string{"INSTRUCTOR"}, time.Hour)
		require.NoError(t, err)

		claims, err := verifier.ValidateToken(raw)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, []string{"INSTRUCTOR"}, claims.Roles)
	})

	t.Run("falls back to sub when user_id is absent", func(t *testing.T) {
		raw := signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
			"iss": testIssuer,
			"aud": testAudience,
			"exp": now.Add(time.Minute).Unix(),
		})

		claims, err := verifier.Verify(raw)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject())
	})

	rejected := []struct {
		name string
		raw  func(t *testing.T) string
		msg  string
	}{
		{
			name: "garbage",
			raw:  func(*testing.T) string { return "not.a.token" },
			msg:  "invalid token",
		},
		{
			name: "expired",
			raw: func(t *testing.T) string {
				raw, err := verifier.Sign(userID, nil, -time.Minute)
				require.NoError(t, err)
				return raw
			},
			msg: "expired",
		},
		{
			name: "other audience",
			raw: func(t *testing.T) string {
				raw, err := NewVerifier(testKey, testIssuer, "billing", WithClock(clock)).Sign(userID, nil, time.Hour)
				require.NoError(t, err)
				return raw
			},
			msg: "invalid token",
		},
		{
			name: "other key",
			raw: func(t *testing.T) string {
				raw, err := NewVerifier("another-key", testIssuer, testAudience, WithClock(clock)).Sign(userID, nil, time.Hour)
				require.NoError(t, err)
				return raw
			},
			msg: "invalid token",
		},
		{
			name: "non-uuid subject",
			raw: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{
					"sub": "alice", "iss": testIssuer, "aud": testAudience, "exp": now.Add(time.Minute).Unix(),
				})
			},
			msg: "subject",
		},
		{
			name: "missing expiry",
			raw: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS256, jwt.MapClaims{
					"sub": userID.String(), "iss": testIssuer, "aud": testAudience,
				})
			},
			msg: "invalid token",
		},
		{
			name: "hs512",
			raw: func(t *testing.T) string {
				return signRaw(t, jwt.SigningMethodHS512, jwt.MapClaims{
					"sub": userID.String(), "iss": testIssuer, "aud": testAudience, "exp": now.Add(time.Minute).Unix(),
				})
			},
			msg: "invalid token",
		},
	}
	for _, tc := range rejected {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			_, err := verifier.ValidateToken(tc.raw(t))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestVerifierLeeway(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := NewVerifier(testKey, testIssuer, testAudience, WithClock(func() time.Time { return issued }))
	raw, err := signer.Sign(uuid.New(), nil, time.Minute)
	require.NoError(t, err)

	skewed := func() time.Time { return issued.Add(time.Minute + 10*time.Second) }

	_, err = NewVerifier(testKey, testIssuer, testAudience, WithClock(skewed)).Verify(raw)
	assert.Error(t, err)

	_, err = NewVerifier(testKey, testIssuer, testAudience, WithClock(skewed), WithLeeway(30*time.Second)).Verify(raw)
	assert.NoError(t, err)
}

func signRaw(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testKey))
	require.NoError(t, err)
	return raw
}
