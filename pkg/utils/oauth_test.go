package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/relief-camps/internal/config"
)

func TestMissingScopes(t *testing.T) {
	assert.Empty(t, missingScopes(ScopeSheets+" "+ScopeGmailSend+" openid"))
	assert.Equal(t, []string{ScopeGmailSend}, missingScopes(ScopeSheets))
	assert.Equal(t, []string{ScopeSheets, ScopeGmailSend}, missingScopes(""))
}

func TestGetOAuthConfig(t *testing.T) {
	oauthCfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client-id",
			ProjectID:               "relief",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	cfg, err := GetOAuthConfig(oauthCfg)
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, "http://localhost:3000/oauth/callback", cfg.RedirectURL)
	assert.ElementsMatch(t, []string{ScopeSheets, ScopeGmailSend}, cfg.Scopes)
}
