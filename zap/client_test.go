package zap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapline/models"
)

func TestClient_Version(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/JSON/core/view/version/", r.URL.Path)
		w.Write([]byte(`{"version":"2.14.0"}`))
	}))
	defer srv.Close()

	version, err := NewClient(srv.URL).Version(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "2.14.0", version)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Version(context.Background())
	assert.ErrorIs(t, err, ErrEngineUnreachable)
}

func TestClient_ProtocolErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"bad_view","message":"Bad View"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Version(context.Background())

	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadRequest, perr.Status)
}

func TestClient_ProtocolErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Version(context.Background())

	var perr *ProtocolError
	assert.ErrorAs(t, err, &perr)
}

func TestClient_StartSpider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/JSON/spider/action/scan/", r.URL.Path)
		assert.Equal(t, "http://localhost:3000", r.URL.Query().Get("url"))
		assert.Equal(t, "100", r.URL.Query().Get("maxChildren"))
		assert.Equal(t, "true", r.URL.Query().Get("recurse"))
		w.Write([]byte(`{"scan":"7"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).StartSpider(context.Background(), "http://localhost:3000", 100)
	assert.NoError(t, err)
	assert.Equal(t, "7", id)
}

func TestClient_StartScanMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).StartActiveScan(context.Background(), "http://localhost:3000")

	var perr *ProtocolError
	assert.ErrorAs(t, err, &perr)
}

func TestClient_SpiderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/JSON/spider/view/status/", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("scanId"))
		w.Write([]byte(`{"status":"42"}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).SpiderStatus(context.Background(), "7")
	assert.NoError(t, err)
	assert.Equal(t, 42, status)
}

func TestClient_ActiveScanStatusGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"done"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ActiveScanStatus(context.Background(), "7")
	assert.Error(t, err)
}

func TestClient_Alerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/JSON/core/view/alerts/", r.URL.Path)
		assert.Equal(t, "http://localhost:3000", r.URL.Query().Get("baseurl"))
		w.Write([]byte(`{"alerts":[
			{"alert":"X-Frame-Options Header Not Set","desc":"d","solution":"s","url":"http://localhost:3000/","param":"","evidence":"e","risk":"Medium"},
			{"alert":"","desc":"","solution":"","url":"http://localhost:3000/x","param":"q","evidence":"","risk":"Bogus"}
		]}`))
	}))
	defer srv.Close()

	findings, err := NewClient(srv.URL).Alerts(context.Background(), "http://localhost:3000")
	assert.NoError(t, err)
	assert.Len(t, findings, 2)

	assert.Equal(t, "X-Frame-Options Header Not Set", findings[0].Name)
	assert.Equal(t, models.Medium, findings[0].Severity)

	// Missing name and unrecognized risk get safe defaults.
	assert.Equal(t, "Unknown", findings[1].Name)
	assert.Equal(t, models.Informational, findings[1].Severity)
}

func TestClient_HTMLReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/OTHER/core/other/htmlreport/", r.URL.Path)
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL).HTMLReport(context.Background(), "http://localhost:3000")
	assert.NoError(t, err)
	assert.Equal(t, "<html></html>", string(body))
}

func TestStartDaemon_SpawnFailure(t *testing.T) {
	_, err := StartDaemon("definitely-not-a-real-binary", 8080)

	var serr *StartError
	assert.ErrorAs(t, err, &serr)
	assert.True(t, errors.Unwrap(err) != nil)
}
