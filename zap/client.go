// Package zap drives an OWASP ZAP scan engine through its local HTTP
// control API. Endpoint paths and parameter names follow the engine's
// documented remote-control protocol.
package zap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"zapline/models"
)

// Client issues control requests against one engine instance.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client for the control API rooted at base,
// e.g. "http://localhost:8080".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// get issues one control call and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.getRaw(ctx, path, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProtocolError{Path: path, Status: http.StatusOK, Err: err}
	}
	return nil
}

// getRaw issues one control call and returns the response body.
func (c *Client) getRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.base + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProtocolError{Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{Path: path, Status: resp.StatusCode, Err: errors.New(string(body))}
	}
	return body, nil
}

// Version returns the engine version, used as the readiness probe.
func (c *Client) Version(ctx context.Context) (string, error) {
	var res struct {
		Version string `json:"version"`
	}
	if err := c.get(ctx, "/JSON/core/view/version/", nil, &res); err != nil {
		return "", err
	}
	return res.Version, nil
}

// IncludeInContext registers regex as in-scope under the named scanning
// context. Re-registering the same regex is a no-op on the engine side.
func (c *Client) IncludeInContext(ctx context.Context, contextName, regex string) error {
	params := url.Values{
		"contextName": {contextName},
		"regex":       {regex},
	}
	return c.get(ctx, "/JSON/core/action/includeInContext/", params, nil)
}

// StartSpider submits a discovery scan and returns the engine-side job ID.
func (c *Client) StartSpider(ctx context.Context, target string, maxChildren int) (string, error) {
	params := url.Values{
		"url":         {target},
		"maxChildren": {strconv.Itoa(maxChildren)},
		"recurse":     {"true"},
	}
	return c.startScan(ctx, "/JSON/spider/action/scan/", params)
}

// SpiderStatus returns the completion percentage of a discovery scan.
func (c *Client) SpiderStatus(ctx context.Context, scanID string) (int, error) {
	return c.scanStatus(ctx, "/JSON/spider/view/status/", scanID)
}

// StartActiveScan submits a probing scan and returns the engine-side job ID.
func (c *Client) StartActiveScan(ctx context.Context, target string) (string, error) {
	params := url.Values{
		"url":         {target},
		"recurse":     {"true"},
		"inScopeOnly": {"false"},
	}
	return c.startScan(ctx, "/JSON/ascan/action/scan/", params)
}

// ActiveScanStatus returns the completion percentage of a probing scan.
func (c *Client) ActiveScanStatus(ctx context.Context, scanID string) (int, error) {
	return c.scanStatus(ctx, "/JSON/ascan/view/status/", scanID)
}

func (c *Client) startScan(ctx context.Context, path string, params url.Values) (string, error) {
	var res struct {
		Scan string `json:"scan"`
	}
	if err := c.get(ctx, path, params, &res); err != nil {
		return "", err
	}
	if len(res.Scan) == 0 {
		return "", &ProtocolError{Path: path, Status: http.StatusOK, Err: errors.New("missing scan id")}
	}
	return res.Scan, nil
}

func (c *Client) scanStatus(ctx context.Context, path, scanID string) (int, error) {
	var res struct {
		Status string `json:"status"`
	}
	params := url.Values{"scanId": {scanID}}
	if err := c.get(ctx, path, params, &res); err != nil {
		return 0, err
	}
	status, err := strconv.Atoi(res.Status)
	if err != nil {
		return 0, &ProtocolError{Path: path, Status: http.StatusOK, Err: err}
	}
	return status, nil
}

// alert is the engine's wire representation of one finding.
type alert struct {
	Alert    string `json:"alert"`
	Desc     string `json:"desc"`
	Solution string `json:"solution"`
	URL      string `json:"url"`
	Param    string `json:"param"`
	Evidence string `json:"evidence"`
	Risk     string `json:"risk"`
}

func (a *alert) finding() models.Finding {
	name := a.Alert
	if len(name) == 0 {
		name = "Unknown"
	}
	return models.Finding{
		Name:        name,
		Description: a.Desc,
		Solution:    a.Solution,
		URL:         a.URL,
		Param:       a.Param,
		Evidence:    a.Evidence,
		Severity:    models.ParseSeverity(a.Risk),
	}
}

// Alerts retrieves all findings recorded for the given base URL, in the
// engine's retrieval order.
func (c *Client) Alerts(ctx context.Context, baseURL string) ([]models.Finding, error) {
	var res struct {
		Alerts []alert `json:"alerts"`
	}
	params := url.Values{"baseurl": {baseURL}}
	if err := c.get(ctx, "/JSON/core/view/alerts/", params, &res); err != nil {
		return nil, err
	}

	findings := make([]models.Finding, 0, len(res.Alerts))
	for i := range res.Alerts {
		findings = append(findings, res.Alerts[i].finding())
	}
	return findings, nil
}

// HTMLReport returns the engine-rendered HTML report for the given base URL.
func (c *Client) HTMLReport(ctx context.Context, baseURL string) ([]byte, error) {
	params := url.Values{"baseurl": {baseURL}}
	return c.getRaw(ctx, "/OTHER/core/other/htmlreport/", params)
}

// SetFormAuth configures form-based authentication on a scanning context.
func (c *Client) SetFormAuth(ctx context.Context, contextID, loginURL, requestBody string) error {
	params := url.Values{
		"contextId":      {contextID},
		"authMethodName": {"formBasedAuthentication"},
		"authMethodConfigParams": {url.Values{
			"loginUrl":         {loginURL},
			"loginRequestData": {requestBody},
		}.Encode()},
	}
	return c.get(ctx, "/JSON/authentication/action/setAuthenticationMethod/", params, nil)
}
