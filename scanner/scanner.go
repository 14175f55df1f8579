// Package scanner sequences a full baseline scan: scope and auth
// configuration, a discovery (spider) pass, an active scan, and report
// generation, with the engine torn down on every exit path.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"zapline/database"
	"zapline/models"
	"zapline/report"
	"zapline/wait"
	"zapline/zap"
)

// ErrScanTimeout is returned when a scan phase does not complete before
// its configured deadline.
var ErrScanTimeout = errors.New("scanner: scan did not complete before deadline")

// ReportName is the JSON artifact filename inside the results directory.
const ReportName = "zap-report.json"

// HTMLReportName is the best-effort HTML artifact filename.
const HTMLReportName = "zap-report.html"

// Runner executes the scan sequence against an engine that is already
// running and ready.
type Runner struct {
	cfg    Config
	client *zap.Client
	auth   AuthConfigurator
}

// New returns a Runner for cfg. Form-based auth is wired in when login
// credentials are configured; otherwise the auth step is a no-op.
func New(cfg Config, client *zap.Client) *Runner {
	cfg.normalize()

	var auth AuthConfigurator = NoAuth{}
	if len(cfg.LoginURL) > 0 && len(cfg.Username) > 0 {
		auth = &FormAuth{
			LoginURL: cfg.LoginURL,
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	return &Runner{cfg: cfg, client: client, auth: auth}
}

// SetScope registers the target, and the API base when it differs, under
// the scanning context. The engine treats re-registering the same regex
// as a no-op.
func (r *Runner) SetScope(ctx context.Context) error {
	if err := r.client.IncludeInContext(ctx, r.cfg.ContextName, r.cfg.TargetURL+".*"); err != nil {
		return err
	}
	if len(r.cfg.APIBaseURL) > 0 && r.cfg.APIBaseURL != r.cfg.TargetURL {
		return r.client.IncludeInContext(ctx, r.cfg.ContextName, r.cfg.APIBaseURL+".*")
	}
	return nil
}

// ConfigureAuth probes the target for an auth requirement and, when one is
// found, lets the configured AuthConfigurator install it.
func (r *Runner) ConfigureAuth(ctx context.Context) error {
	required, err := DetectAuth(ctx, r.cfg.TargetURL)
	if err != nil {
		logrus.Warnf("could not determine auth requirement, scanning unauthenticated: %v", err)
	}
	if !required {
		return nil
	}
	return r.auth.Configure(ctx, r.client)
}

// RunSpider submits the discovery scan and blocks until the engine reports
// completion, polling at the configured interval.
func (r *Runner) RunSpider(ctx context.Context) (*models.ScanJob, error) {
	logrus.Infof("Running spider scan...")

	id, err := r.client.StartSpider(ctx, r.cfg.TargetURL, r.cfg.MaxChildren)
	if err != nil {
		return nil, err
	}

	job := &models.ScanJob{ID: id, Kind: models.Discovery}
	cfg := wait.Config{Interval: r.cfg.SpiderInterval, Deadline: r.cfg.SpiderDeadline}
	err = wait.Until(ctx, cfg, func(ctx context.Context) (bool, error) {
		status, err := r.client.SpiderStatus(ctx, id)
		if err != nil {
			return false, err
		}
		job.Status = status
		return job.Done(), nil
	})
	if errors.Is(err, wait.ErrDeadline) {
		return nil, fmt.Errorf("%w: discovery scan %s at %d%%", ErrScanTimeout, id, job.Status)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// RunActiveScan submits the probing scan and blocks until completion,
// logging progress at each poll. It must only be called after discovery
// has completed: active scanning is only meaningful against URLs the
// spider has found.
func (r *Runner) RunActiveScan(ctx context.Context) (*models.ScanJob, error) {
	logrus.Infof("Running active security scan...")

	id, err := r.client.StartActiveScan(ctx, r.cfg.TargetURL)
	if err != nil {
		return nil, err
	}

	job := &models.ScanJob{ID: id, Kind: models.Probing}
	cfg := wait.Config{Interval: r.cfg.ActiveInterval, Deadline: r.cfg.ActiveDeadline}
	err = wait.Until(ctx, cfg, func(ctx context.Context) (bool, error) {
		status, err := r.client.ActiveScanStatus(ctx, id)
		if err != nil {
			return false, err
		}
		job.Status = status
		if !job.Done() {
			logrus.Infof("Active scan progress: %d%%", status)
		}
		return job.Done(), nil
	})
	if errors.Is(err, wait.ErrDeadline) {
		return nil, fmt.Errorf("%w: active scan %s at %d%%", ErrScanTimeout, id, job.Status)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Run executes configuration, both scan phases and report generation
// against a ready engine.
func (r *Runner) Run(ctx context.Context) (*models.Report, error) {
	logrus.Infof("Configuring engine...")
	if err := r.SetScope(ctx); err != nil {
		return nil, err
	}
	if err := r.ConfigureAuth(ctx); err != nil {
		return nil, err
	}

	if _, err := r.RunSpider(ctx); err != nil {
		return nil, err
	}
	if _, err := r.RunActiveScan(ctx); err != nil {
		return nil, err
	}

	logrus.Infof("Generating report...")
	gen := report.NewGenerator(r.client, r.cfg.ResultsDir)

	findings, err := gen.Fetch(ctx, r.cfg.TargetURL)
	if err != nil {
		return nil, err
	}
	rep := report.Summarize(r.cfg.TargetURL, findings, time.Now())

	if _, err := gen.Persist(rep, ReportName); err != nil {
		return nil, err
	}
	if _, err := gen.ExportHTML(ctx, r.cfg.TargetURL, HTMLReportName); err != nil {
		logrus.Warnf("HTML report export failed: %v", err)
	}

	report.LogSummary(rep)
	return rep, nil
}

// engine is the slice of the daemon lifecycle Execute depends on.
type engine interface {
	Client() *zap.Client
	WaitReady(ctx context.Context, timeout time.Duration) bool
	Stop() error
}

// startEngine spawns the real engine daemon. Tests substitute it.
var startEngine = func(cfg Config) (engine, error) {
	return zap.StartDaemon(cfg.Command, cfg.Port)
}

// Execute runs a complete scan: engine start, readiness wait, the scan
// sequence, and history recording. The engine is stopped on every exit
// path once it has been started.
func Execute(ctx context.Context, cfg Config) (*models.Report, error) {
	cfg.normalize()
	logrus.Infof("Starting security scan for %s", cfg.TargetURL)

	eng, err := startEngine(cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		logrus.Infof("Stopping engine...")
		if err := eng.Stop(); err != nil {
			logrus.Errorf("engine stop failed: %v", err)
		}
	}()

	if !eng.WaitReady(ctx, cfg.ReadyTimeout) {
		return nil, zap.ErrNotReady
	}

	rep, err := New(cfg, eng.Client()).Run(ctx)
	if err != nil {
		return nil, err
	}

	saveHistory(cfg, rep)
	return rep, nil
}

// saveHistory records the completed run in the scan-history store. History
// is an additional sink next to the JSON artifact, so failures only warn.
func saveHistory(cfg Config, rep *models.Report) {
	if len(cfg.HistoryDB) == 0 {
		return
	}

	db, err := database.New(cfg.HistoryDB)
	if err != nil {
		logrus.Warnf("scan history unavailable: %v", err)
		return
	}

	rec, err := database.NewReportRecord(rep)
	if err != nil {
		logrus.Warnf("could not encode scan history record: %v", err)
		return
	}
	if err := db.SaveReport(rec); err != nil {
		logrus.Warnf("could not save scan history: %v", err)
	}
}
