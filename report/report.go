// Package report turns engine findings into the persisted scan report.
package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"zapline/models"
	"zapline/zap"
)

// WriteError wraps an I/O failure while persisting a report artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return "report: failed to write " + e.Path + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error { return e.Err }

// Generator fetches findings from the engine and writes report artifacts
// under a results directory.
type Generator struct {
	client *zap.Client
	dir    string
}

// NewGenerator returns a Generator writing into dir.
func NewGenerator(client *zap.Client, dir string) *Generator {
	return &Generator{client: client, dir: dir}
}

// Fetch retrieves all findings the engine recorded for the target.
func (g *Generator) Fetch(ctx context.Context, targetURL string) ([]models.Finding, error) {
	return g.client.Alerts(ctx, targetURL)
}

// Summarize groups findings into the four fixed severity buckets. Findings
// keep their retrieval order inside each bucket; buckets are always present
// even when empty.
func Summarize(targetURL string, findings []models.Finding, at time.Time) *models.Report {
	rep := &models.Report{
		ScanDate:    models.ScanTime(at),
		TargetURL:   targetURL,
		Summary:     make(map[models.Severity]int, 4),
		Findings:    make(map[models.Severity][]models.Finding, 4),
		TotalAlerts: len(findings),
	}
	for _, sev := range models.Severities() {
		rep.Summary[sev] = 0
		rep.Findings[sev] = []models.Finding{}
	}

	for _, f := range findings {
		sev := models.ParseSeverity(string(f.Severity))
		rep.Summary[sev]++
		rep.Findings[sev] = append(rep.Findings[sev], f)
	}
	return rep
}

// Persist serializes the report as indented JSON under the results
// directory, creating parent directories as needed. It returns the full
// path of the written artifact.
func (g *Generator) Persist(rep *models.Report, name string) (string, error) {
	path := filepath.Join(g.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

// ExportHTML fetches the engine-rendered HTML report and writes it next to
// the JSON artifact. This is a secondary artifact; callers treat failure as
// non-fatal.
func (g *Generator) ExportHTML(ctx context.Context, targetURL, name string) (string, error) {
	body, err := g.client.HTMLReport(ctx, targetURL)
	if err != nil {
		return "", err
	}

	path := filepath.Join(g.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}

// LogSummary prints the one-line completion summary and the per-severity
// breakdown, skipping empty buckets.
func LogSummary(rep *models.Report) {
	logrus.Infof("Security scan completed. Found %d total alerts:", rep.TotalAlerts)
	for _, sev := range models.Severities() {
		if rep.Summary[sev] > 0 {
			logrus.Infof("  %s: %d", sev, rep.Summary[sev])
		}
	}
}
