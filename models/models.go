package models

import (
	"errors"
	"net/url"
	"time"
)

// Severity defines the risk level reported by the scan engine for a finding.
type Severity string

const (
	High          Severity = "High"
	Medium        Severity = "Medium"
	Low           Severity = "Low"
	Informational Severity = "Informational"
)

// Severities lists all severity buckets in descending order of risk.
func Severities() []Severity {
	return []Severity{High, Medium, Low, Informational}
}

// ParseSeverity maps an engine-reported risk string to a Severity.
// Unknown or empty values fall back to Informational.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case High, Medium, Low, Informational:
		return Severity(s)
	default:
		return Informational
	}
}

// ScanKind defines the phase a scan job belongs to.
type ScanKind string

const (
	Discovery ScanKind = "spider"
	Probing   ScanKind = "ascan"
)

// ScanJob tracks one engine-side scan from submission to completion.
// Status is the engine-reported completion percentage, 0-100.
type ScanJob struct {
	ID     string   `json:"id"`
	Kind   ScanKind `json:"kind"`
	Status int      `json:"status"`
}

// Done reports whether the engine has finished the job.
func (j *ScanJob) Done() bool {
	return j.Status >= 100
}

// Finding defines one potential vulnerability reported by the scan engine.
// Severity is carried separately as the report bucket key, so it is not
// repeated in the serialized finding.
type Finding struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Solution    string   `json:"solution"`
	URL         string   `json:"url"`
	Param       string   `json:"param"`
	Evidence    string   `json:"evidence"`
	Severity    Severity `json:"-"`
}

// ScanTime serializes a timestamp in the report's date format.
type ScanTime time.Time

const scanTimeLayout = "2006-01-02 15:04:05"

// MarshalJSON formats the timestamp as "YYYY-MM-DD HH:MM:SS".
func (t ScanTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(scanTimeLayout) + `"`), nil
}

// UnmarshalJSON parses the report date format.
func (t *ScanTime) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("invalid scan date")
	}
	parsed, err := time.Parse(scanTimeLayout, string(b[1:len(b)-1]))
	if err != nil {
		return err
	}
	*t = ScanTime(parsed)
	return nil
}

// Report defines the JSON structure of the persisted scan report.
// The field names and layout are a fixed external contract.
type Report struct {
	ScanDate    ScanTime               `json:"scan_date"`
	TargetURL   string                 `json:"target_url"`
	Summary     map[Severity]int       `json:"summary"`
	Findings    map[Severity][]Finding `json:"findings"`
	TotalAlerts int                    `json:"total_alerts"`
}

// TargetInfo holds information about a scan target.
type TargetInfo struct {
	FullURL string
	Domain  string
}

// ParseTargetInfo validates a raw scan-target URL and splits out its
// domain. Only absolute http and https URLs are scannable.
func ParseTargetInfo(rawURL string) (TargetInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return TargetInfo{}, err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return TargetInfo{}, errors.New("target must be an http or https URL")
	}

	domain := u.Hostname()
	if len(domain) == 0 {
		return TargetInfo{}, errors.New("invalid domain")
	}

	return TargetInfo{
		FullURL: rawURL,
		Domain:  domain,
	}, nil
}
