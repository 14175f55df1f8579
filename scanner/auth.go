package scanner

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"zapline/zap"
)

// AuthConfigurator installs authentication on the scanning context before
// any scan phase runs.
type AuthConfigurator interface {
	Configure(ctx context.Context, client *zap.Client) error
}

// NoAuth is the baseline configurator. It performs no action.
type NoAuth struct{}

func (NoAuth) Configure(context.Context, *zap.Client) error { return nil }

// DetectAuth probes the conventional health endpoint. Only an HTTP 401
// means auth is required. A connection error means the requirement could
// not be determined; it is reported so callers can log it, but the scan
// proceeds unauthenticated.
func DetectAuth(ctx context.Context, targetURL string) (bool, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL+"/api/health", nil)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusUnauthorized, nil
}

// FormAuth discovers the login form's field names on the login page and
// registers form-based authentication with the engine.
type FormAuth struct {
	LoginURL  string
	Username  string
	Password  string
	ContextID string
}

// Configure fetches the login page, extracts the credential field names and
// installs the form-based auth method on the scanning context.
func (f *FormAuth) Configure(ctx context.Context, client *zap.Client) error {
	body, err := fetchPage(ctx, f.LoginURL)
	if err != nil {
		return err
	}

	userField, passField := extractLoginFields(body)
	logrus.Debugf("login form fields: user=%s pass=%s", userField, passField)

	contextID := f.ContextID
	if len(contextID) == 0 {
		contextID = "1"
	}

	// The engine substitutes the placeholders with the configured user's
	// credentials at scan time.
	requestBody := url.Values{
		userField: {"{%username%}"},
		passField: {"{%password%}"},
	}.Encode()

	return client.SetFormAuth(ctx, contextID, f.LoginURL, requestBody)
}

// fetchPage performs a basic HTTP GET request and returns the page content.
func fetchPage(ctx context.Context, urlStr string) (string, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(bodyBytes), nil
}

// extractLoginFields extracts the username and password input names from
// the login form. Conventional names are used when the form cannot be
// parsed.
func extractLoginFields(htmlContent string) (string, string) {
	userField, passField := "username", "password"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return userField, passField
	}

	userFound := false
	doc.Find("form input").Each(func(i int, s *goquery.Selection) {
		name, exists := s.Attr("name")
		if !exists {
			return
		}
		inputType, _ := s.Attr("type")
		switch inputType {
		case "password":
			passField = name
		case "text", "email", "":
			if !userFound {
				userField = name
				userFound = true
			}
		}
	})
	return userField, passField
}
