package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flanksource/bounty-hunter/internal/store"
	"github.com/flanksource/bounty-hunter/models"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenDir(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func scanInput(scanID string) ScanInput {
	return ScanInput{
		ScanID:           scanID,
		RepoName:         "solana-labs/example",
		RepoURL:          "https://github.com/solana-labs/example",
		SemgrepOutput:    []byte(semgrepSample),
		CargoAuditOutput: []byte(cargoAuditSample),
		FilesScanned:     120,
		LinesScanned:     18000,
		Duration:         90 * time.Second,
	}
}

func TestIngestorRun(t *testing.T) {
	s := newTestStore(t)

	result, err := New(s, nil).Run(scanInput("SCAN-1"))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.SemgrepFindings)
	assert.Equal(t, 2, result.CargoVulnerabilities)

	findings, err := s.ListFindings(store.FindingFilter{})
	require.NoError(t, err)
	require.Len(t, findings, 4)
	for _, f := range findings {
		assert.Equal(t, "solana-labs/example", f.RepoName)
		assert.Equal(t, "SCAN-1", f.ScanID)
		assert.Equal(t, models.StatusPending, f.Status)
	}

	repo, err := s.GetRepository("solana-labs/example")
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.ScanCount)
	assert.Equal(t, int64(4), repo.TotalFindings)

	history, err := s.GetScanHistory("SCAN-1")
	require.NoError(t, err)
	assert.Equal(t, models.ScanCompleted, history.Status)
	assert.Equal(t, 2, history.SemgrepFindings)
	assert.Equal(t, 2, history.CargoVulnerabilities)
	assert.Equal(t, 120, history.FilesScanned)
	assert.Equal(t, 90, history.DurationSeconds)
}

func TestIngestorDeduplicatesAcrossScans(t *testing.T) {
	s := newTestStore(t)
	ingestor := New(s, nil)

	_, err := ingestor.Run(scanInput("SCAN-1"))
	require.NoError(t, err)

	result, err := ingestor.Run(scanInput("SCAN-2"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 4, result.Updated)

	findings, err := s.ListFindings(store.FindingFilter{})
	require.NoError(t, err)
	assert.Len(t, findings, 4)

	// both scans are in the ledger even though no new findings were created
	history, err := s.ListScanHistory("solana-labs/example", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	repo, err := s.GetRepository("solana-labs/example")
	require.NoError(t, err)
	assert.Equal(t, int64(2), repo.ScanCount)
}

func TestIngestorRecordsFailedScan(t *testing.T) {
	s := newTestStore(t)

	in := scanInput("SCAN-BAD")
	in.SemgrepOutput = []byte("not json")

	_, err := New(s, nil).Run(in)
	require.Error(t, err)

	history, err := s.GetScanHistory("SCAN-BAD")
	require.NoError(t, err)
	assert.Equal(t, models.ScanFailed, history.Status)
	assert.Contains(t, history.ErrorMessage, "semgrep")

	findings, err := s.ListFindings(store.FindingFilter{})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestIngestorRequiresIdentity(t *testing.T) {
	s := newTestStore(t)
	ingestor := New(s, nil)

	in := scanInput("")
	_, err := ingestor.Run(in)
	assert.ErrorContains(t, err, "scan_id")

	in = scanInput("SCAN-1")
	in.RepoName = ""
	_, err = ingestor.Run(in)
	assert.ErrorContains(t, err, "repo_name")

	in = scanInput("SCAN-1")
	in.RepoURL = ""
	_, err = ingestor.Run(in)
	assert.ErrorContains(t, err, "repo_url")
}

func TestIngestorAppliesSeverityMapping(t *testing.T) {
	s := newTestStore(t)

	mappingFile := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(mappingFile, []byte(
		"categories:\n  missing-signer-check: Critical\n"), 0644))

	mapping, err := LoadSeverityMapping(mappingFile)
	require.NoError(t, err)

	_, err = New(s, mapping).Run(scanInput("SCAN-1"))
	require.NoError(t, err)

	critical, err := s.ListFindings(store.FindingFilter{Severity: models.SeverityCritical})
	require.NoError(t, err)

	var categories []string
	for _, f := range critical {
		categories = append(categories, f.Category)
	}
	assert.Contains(t, categories, "missing-signer-check")
}

func TestNewScanID(t *testing.T) {
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "SCAN-20260825-143000-demo", NewScanID("demo", now))
}

func TestLoadSeverityMappingRejectsUnknownSeverity(t *testing.T) {
	mappingFile := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(mappingFile, []byte(
		"categories:\n  missing-signer-check: Urgent\n"), 0644))

	_, err := LoadSeverityMapping(mappingFile)
	assert.ErrorContains(t, err, "missing-signer-check")
}
