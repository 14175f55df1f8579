package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapline/zap"
)

func TestDetectAuth_Required(t *testing.T) {
	target := newTarget(http.StatusUnauthorized)
	defer target.Close()

	required, err := DetectAuth(context.Background(), target.URL)
	assert.NoError(t, err)
	assert.True(t, required)
}

func TestDetectAuth_NotRequired(t *testing.T) {
	target := newTarget(http.StatusOK)
	defer target.Close()

	required, err := DetectAuth(context.Background(), target.URL)
	assert.NoError(t, err)
	assert.False(t, required)
}

func TestDetectAuth_OtherStatusNotRequired(t *testing.T) {
	target := newTarget(http.StatusForbidden)
	defer target.Close()

	required, err := DetectAuth(context.Background(), target.URL)
	assert.NoError(t, err)
	assert.False(t, required)
}

func TestDetectAuth_ConnectionError(t *testing.T) {
	target := newTarget(http.StatusOK)
	target.Close()

	required, err := DetectAuth(context.Background(), target.URL)
	assert.Error(t, err)
	assert.False(t, required)
}

func TestExtractLoginFields(t *testing.T) {
	html := `<html><body><form method="post">
		<input type="email" name="user_email">
		<input type="password" name="user_secret">
		<input type="submit" name="go">
	</form></body></html>`

	userField, passField := extractLoginFields(html)
	assert.Equal(t, "user_email", userField)
	assert.Equal(t, "user_secret", passField)
}

func TestExtractLoginFields_Defaults(t *testing.T) {
	userField, passField := extractLoginFields("<html><body>no form here</body></html>")
	assert.Equal(t, "username", userField)
	assert.Equal(t, "password", passField)
}

func TestFormAuth_Configure(t *testing.T) {
	login := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<form><input type="text" name="login"><input type="password" name="pw"></form>`))
	}))
	defer login.Close()

	var gotParams url.Values
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/JSON/authentication/action/setAuthenticationMethod/", r.URL.Path)
		gotParams = r.URL.Query()
		w.Write([]byte(`{"Result":"OK"}`))
	}))
	defer engine.Close()

	auth := &FormAuth{LoginURL: login.URL, Username: "u", Password: "p"}
	err := auth.Configure(context.Background(), zap.NewClient(engine.URL))
	require.NoError(t, err)

	assert.Equal(t, "formBasedAuthentication", gotParams.Get("authMethodName"))
	assert.Equal(t, "1", gotParams.Get("contextId"))

	config, err := url.ParseQuery(gotParams.Get("authMethodConfigParams"))
	require.NoError(t, err)
	assert.Equal(t, login.URL, config.Get("loginUrl"))

	loginData, err := url.ParseQuery(config.Get("loginRequestData"))
	require.NoError(t, err)
	assert.Equal(t, "{%username%}", loginData.Get("login"))
	assert.Equal(t, "{%password%}", loginData.Get("pw"))
}

func TestRunner_AuthSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetURL = "http://localhost:3000"

	r := New(cfg, zap.NewClient("http://localhost:8080"))
	assert.IsType(t, NoAuth{}, r.auth)

	cfg.LoginURL = "http://localhost:3000/login"
	cfg.Username = "admin"
	cfg.Password = "secret"
	r = New(cfg, zap.NewClient("http://localhost:8080"))
	assert.IsType(t, &FormAuth{}, r.auth)
}
