package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flanksource/bounty-hunter/models"
)

const cargoAuditSample = `{
  "vulnerabilities": {
    "found": true,
    "count": 2,
    "list": [
      {
        "advisory": {
          "id": "RUSTSEC-2023-0001",
          "title": "Buffer overflow in deserialization",
          "description": "Crafted input can overflow the decode buffer.",
          "cvss": "9.8"
        },
        "package": {"name": "borsh", "version": "0.9.1"}
      },
      {
        "advisory": {
          "id": "RUSTSEC-2022-0090",
          "title": "Unmaintained crate",
          "description": "The crate is no longer maintained.",
          "cvss": ""
        },
        "package": {"name": "time", "version": "0.1.44"}
      }
    ]
  }
}`

func TestParseCargoAudit(t *testing.T) {
	findings, err := ParseCargoAudit([]byte(cargoAuditSample))
	require.NoError(t, err)
	require.Len(t, findings, 2)

	first := findings[0]
	assert.Equal(t, "cargo-audit", first.Analyzer)
	assert.Equal(t, "RUSTSEC-2023-0001", first.Category)
	assert.Equal(t, "borsh: Buffer overflow in deserialization", first.Title)
	assert.Equal(t, models.SeverityCritical, first.Severity)
	assert.Equal(t, "Cargo.lock", first.FilePath)
	assert.Equal(t, 0, first.Line)

	// advisories without a CVSS score default to High
	assert.Equal(t, models.SeverityHigh, findings[1].Severity)
}

func TestParseCargoAuditMalformed(t *testing.T) {
	_, err := ParseCargoAudit([]byte(`{`))
	assert.Error(t, err)
}

func TestCVSSSeverity(t *testing.T) {
	tests := []struct {
		cvss string
		want models.Severity
	}{
		{"9.8", models.SeverityCritical},
		{"9.0", models.SeverityCritical},
		{"7.5", models.SeverityHigh},
		{"5.3", models.SeverityMedium},
		{"2.1", models.SeverityLow},
		{"0", models.SeverityInformational},
		{"", models.SeverityHigh},
		{"n/a", models.SeverityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cvssSeverity(tt.cvss), "cvss=%q", tt.cvss)
	}
}
