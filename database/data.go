package database

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"zapline/models"
)

// ReportRecord is one completed scan run in the history store. The full
// findings map is kept as a JSON column; the severity counts are broken
// out for querying.
type ReportRecord struct {
	gorm.Model
	TargetURL     string         `gorm:"column:target_url" json:"target_url"`
	ScanDate      time.Time      `gorm:"column:scan_date" json:"scan_date"`
	High          int            `gorm:"column:high" json:"high"`
	Medium        int            `gorm:"column:medium" json:"medium"`
	Low           int            `gorm:"column:low" json:"low"`
	Informational int            `gorm:"column:informational" json:"informational"`
	TotalAlerts   int            `gorm:"column:total_alerts" json:"total_alerts"`
	Findings      datatypes.JSON `gorm:"column:findings" json:"findings"`
}

// NewReportRecord converts a finished report into its history row.
func NewReportRecord(rep *models.Report) (*ReportRecord, error) {
	findings, err := json.Marshal(rep.Findings)
	if err != nil {
		return nil, err
	}

	return &ReportRecord{
		TargetURL:     rep.TargetURL,
		ScanDate:      time.Time(rep.ScanDate),
		High:          rep.Summary[models.High],
		Medium:        rep.Summary[models.Medium],
		Low:           rep.Summary[models.Low],
		Informational: rep.Summary[models.Informational],
		TotalAlerts:   rep.TotalAlerts,
		Findings:      datatypes.JSON(findings),
	}, nil
}
