package scanner

import (
	"path/filepath"
	"strings"
	"time"
)

// Config carries every knob for one scan run. A zero value is not usable;
// start from DefaultConfig and fill in the target.
type Config struct {
	// TargetURL is the application under test.
	TargetURL string
	// APIBaseURL is the application's API base, scanned alongside the UI.
	// Empty means DefaultAPIBase(TargetURL).
	APIBaseURL string

	// Port is the engine control port. Runs are not arbitrated: two
	// concurrent runs need distinct ports, which the caller must manage.
	Port int
	// Command launches the engine; empty means zap.DefaultCommand.
	Command string

	ResultsDir  string
	HistoryDB   string // scan-history sqlite path; empty means ResultsDir/history.db
	ContextName string
	MaxChildren int

	ReadyTimeout   time.Duration
	SpiderInterval time.Duration
	ActiveInterval time.Duration
	// Per-phase deadlines. Zero means wait until the engine finishes.
	SpiderDeadline time.Duration
	ActiveDeadline time.Duration

	// Optional form-based auth, used only when the target demands auth.
	LoginURL string
	Username string
	Password string

	Debug bool
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		ResultsDir:     filepath.Join("security", "results"),
		ContextName:    "Default Context",
		MaxChildren:    100,
		ReadyTimeout:   60 * time.Second,
		SpiderInterval: 2 * time.Second,
		ActiveInterval: 5 * time.Second,
	}
}

// DefaultAPIBase derives the API base URL from the target by substituting
// the conventional app port for the API port.
func DefaultAPIBase(targetURL string) string {
	return strings.Replace(targetURL, ":3000", ":8080", 1)
}

// normalize fills derived defaults in place.
func (c *Config) normalize() {
	if len(c.APIBaseURL) == 0 {
		c.APIBaseURL = DefaultAPIBase(c.TargetURL)
	}
	if len(c.ContextName) == 0 {
		c.ContextName = "Default Context"
	}
	if len(c.HistoryDB) == 0 && len(c.ResultsDir) > 0 {
		c.HistoryDB = filepath.Join(c.ResultsDir, "history.db")
	}
}
