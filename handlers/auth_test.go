package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefreshLogoutFlow(t *testing.T) {
	env := newTestEnv(t)

	// register
	w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email:    "marie@example.com",
		Password: "s3cret-pass",
		FullName: "Marie Dupont",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reg struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	}
	decodeJSON(t, w, &reg)
	require.NotEmpty(t, reg.AccessToken)
	require.NotEmpty(t, reg.RefreshToken)
	require.Equal(t, 900, reg.ExpiresIn)

	// the access token works against the API group
	w = env.do(t, http.MethodGet, "/api/v1/profile", reg.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// login
	w = env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "marie@example.com",
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		RefreshToken string `json:"refreshToken"`
	}
	decodeJSON(t, w, &login)

	// refresh
	w = env.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, w, &refreshed)
	require.NotEmpty(t, refreshed.AccessToken)

	// logout, then the refresh token is dead
	w = env.do(t, http.MethodPost, "/auth/logout", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerTeacher(t, "marie@example.com", "Marie Dupont", "")

	w := env.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email:    "marie@example.com",
		Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.registerTeacher(t, "marie@example.com", "Marie Dupont", "")

	w := env.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email:    "marie@example.com",
		Password: "s3cret-pass",
		FullName: "Imposter",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRefreshUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
