package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mathplanner/mathplanner/internal/profile"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func testProfile() *profile.Profile {
	return &profile.Profile{
		Sub:      "local|marie@example.com",
		Email:    "marie@example.com",
		FullName: "Marie Dupont",
	}
}

func TestGenerateAndParseRoundtrip(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testSecret, testProfile(), 2*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(testSecret, tokenStr)
	require.NoError(t, err)
	require.Equal(t, "local|marie@example.com", claims["sub"])
	require.Equal(t, "Marie Dupont", claims["name"])
	require.Equal(t, "marie@example.com", claims["email"])
}

func TestParseExpiredTokenFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testSecret, testProfile(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, tokenStr)
	require.Error(t, err)
}

func TestParseWrongSecretFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testSecret, testProfile(), 2*time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("different-secret-xxxxxxxxxxxxxxxx", tokenStr)
	require.Error(t, err)
}

func TestParseAlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."

	_, err := ParseAccessToken(testSecret, tok)
	require.Error(t, err)
}

func TestParseTamperedPayloadFails(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testSecret, testProfile(), 5*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(tokenStr, ".")
	require.Len(t, parts, 3)
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payloadBytes), "marie", "attacker", 1)))

	_, err = ParseAccessToken(testSecret, strings.Join(parts, "."))
	require.Error(t, err)
}

func TestVerifierClaims(t *testing.T) {
	tokenStr, err := GenerateAccessToken(testSecret, testProfile(), 2*time.Minute)
	require.NoError(t, err)

	ver := Verifier{Secret: testSecret}
	tok, err := ver.Verify(context.Background(), tokenStr)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "local|marie@example.com", claims["sub"])
}
