package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret", 24).WithClock(fixedClock(base))

	token, exp, err := tm.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, base.Add(24*time.Hour), exp)

	subject, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestTokenExpiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager("test-secret", 24).WithClock(fixedClock(base))

	token, _, err := tm.Issue("user-123")
	require.NoError(t, err)

	// Still valid just inside the window.
	tm.WithClock(fixedClock(base.Add(23 * time.Hour)))
	_, err = tm.Verify(token)
	assert.NoError(t, err)

	// Invalid just past it.
	tm.WithClock(fixedClock(base.Add(24*time.Hour + time.Minute)))
	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestTokenTamperSensitivity(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)

	token, _, err := tm.Issue("user-123")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for i := range sig {
		mutated := append([]byte(nil), sig...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(mutated)
		if _, err := tm.Verify(tampered); err == nil {
			t.Fatalf("tampered signature at position %d accepted", i)
		}
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 24).Issue("user-123")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 24).Verify(token)
	assert.Error(t, err)
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "...."} {
		_, err := tm.Verify(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	tm := NewTokenManager("test-secret", 24)

	// alg=none with an empty signature segment must never verify.
	header := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0"
	payload := "eyJzdWIiOiJ1c2VyLTEyMyJ9"
	_, err := tm.Verify(header + "." + payload + ".")
	assert.Error(t, err)
}
