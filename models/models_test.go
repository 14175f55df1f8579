package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, High, ParseSeverity("High"))
	assert.Equal(t, Medium, ParseSeverity("Medium"))
	assert.Equal(t, Low, ParseSeverity("Low"))
	assert.Equal(t, Informational, ParseSeverity("Informational"))

	// Unknown or missing values fall back to Informational.
	assert.Equal(t, Informational, ParseSeverity(""))
	assert.Equal(t, Informational, ParseSeverity("Critical"))
	assert.Equal(t, Informational, ParseSeverity("high"))
}

func TestScanJob_Done(t *testing.T) {
	job := ScanJob{ID: "1", Kind: Discovery}
	assert.False(t, job.Done())

	job.Status = 57
	assert.False(t, job.Done())

	job.Status = 100
	assert.True(t, job.Done())
}

func TestScanTime_JSON(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	data, err := json.Marshal(ScanTime(at))
	assert.NoError(t, err)
	assert.Equal(t, `"2026-03-14 15:09:26"`, string(data))

	var parsed ScanTime
	assert.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, at.Equal(time.Time(parsed)))

	assert.Error(t, json.Unmarshal([]byte(`42`), &parsed))
}

func TestParseTargetInfo(t *testing.T) {
	ti, err := ParseTargetInfo("http://localhost:3000")
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", ti.FullURL)
	assert.Equal(t, "localhost", ti.Domain)

	ti, err = ParseTargetInfo("https://app.example.com/login")
	assert.NoError(t, err)
	assert.Equal(t, "app.example.com", ti.Domain)
}

func TestParseTargetInfo_Invalid(t *testing.T) {
	for _, raw := range []string{
		"not a url",
		"localhost:3000", // scheme-less
		"ftp://example.com",
		"http://",
	} {
		_, err := ParseTargetInfo(raw)
		assert.Error(t, err, "target %q must be rejected", raw)
	}
}
