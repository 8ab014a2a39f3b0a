package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	a := Fingerprint("demo", "lib.rs", 10, "missing-signer-check")
	b := Fingerprint("demo", "lib.rs", 10, "missing-signer-check")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "FND-"))
	assert.Len(t, a, len("FND-")+12)
}

func TestFingerprintDistinguishesLocationFields(t *testing.T) {
	base := Fingerprint("demo", "lib.rs", 10, "missing-signer-check")

	assert.NotEqual(t, base, Fingerprint("other", "lib.rs", 10, "missing-signer-check"))
	assert.NotEqual(t, base, Fingerprint("demo", "main.rs", 10, "missing-signer-check"))
	assert.NotEqual(t, base, Fingerprint("demo", "lib.rs", 11, "missing-signer-check"))
	assert.NotEqual(t, base, Fingerprint("demo", "lib.rs", 10, "unchecked-arithmetic"))
}

func TestEnsureIDIgnoresFreeText(t *testing.T) {
	first := Finding{
		RepoName: "demo",
		FilePath: "lib.rs",
		Line:     10,
		Category: "missing-signer-check",
		Title:    "Missing signer check",
	}
	second := first
	second.Title = "Signer check absent on withdraw handler"
	second.Description = "reworded by a later analyzer run"

	assert.Equal(t, first.EnsureID(), second.EnsureID())
}

func TestFindingValidate(t *testing.T) {
	valid := func() Finding {
		return Finding{
			RepoName: "demo",
			RepoURL:  "https://github.com/demo/demo",
			FilePath: "lib.rs",
			Line:     10,
			Category: "missing-signer-check",
			Title:    "Missing signer check",
			Severity: SeverityHigh,
		}
	}

	t.Run("valid finding", func(t *testing.T) {
		f := valid()
		require.NoError(t, f.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Finding)
		wantErr string
	}{
		{"missing repo name", func(f *Finding) { f.RepoName = "" }, "repo_name"},
		{"missing repo url", func(f *Finding) { f.RepoURL = "" }, "repo_url"},
		{"missing file path", func(f *Finding) { f.FilePath = "" }, "file_path"},
		{"missing category", func(f *Finding) { f.Category = "" }, "category"},
		{"missing title", func(f *Finding) { f.Title = "" }, "title"},
		{"invalid severity", func(f *Finding) { f.Severity = "URGENT" }, "invalid severity"},
		{"invalid status", func(f *Finding) { f.Status = "confirmed" }, "invalid status"},
		{"negative line", func(f *Finding) { f.Line = -1 }, "line"},
		{"confidence too high", func(f *Finding) { f.Confidence = 101 }, "confidence"},
		{"confidence negative", func(f *Finding) { f.Confidence = -1 }, "confidence"},
		{"snippet too long", func(f *Finding) { f.Snippet = strings.Repeat("x", MaxSnippetLength+1) }, "snippet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(&f)
			err := f.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, sev)

	_, err = ParseSeverity("urgent")
	assert.Error(t, err)

	// never coerced
	_, err = ParseSeverity("CRITICAL ")
	assert.Error(t, err)
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityHigh))
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
	assert.Less(t, SeverityCritical.Rank(), SeverityInformational.Rank())
}
