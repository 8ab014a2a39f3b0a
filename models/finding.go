package models

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flanksource/clicky/api"
)

// MaxSnippetLength bounds the stored code snippet.
const MaxSnippetLength = 4096

// fingerprintLength is the number of hex characters kept from the hash.
const fingerprintLength = 12

// Finding is a single reported security issue, uniquely identified by a
// deterministic fingerprint of its stable location fields.
type Finding struct {
	ID       string `json:"id" gorm:"column:id;primaryKey"`
	RepoName string `json:"repo_name" gorm:"column:repo_name;not null;index"`
	RepoURL  string `json:"repo_url" gorm:"column:repo_url;not null"`
	FilePath string `json:"file_path" gorm:"column:file_path;not null"`
	Line     int    `json:"line" gorm:"column:line;not null"`

	// Category is the vulnerability class tag, e.g. "missing-signer-check".
	Category       string   `json:"category" gorm:"column:category;not null;index"`
	Title          string   `json:"title" gorm:"column:title;not null"`
	Description    string   `json:"description,omitempty" gorm:"column:description"`
	Severity       Severity `json:"severity" gorm:"column:severity;not null;index"`
	Impact         string   `json:"impact,omitempty" gorm:"column:impact"`
	Recommendation string   `json:"recommendation,omitempty" gorm:"column:recommendation"`
	Snippet        string   `json:"snippet,omitempty" gorm:"column:snippet"`

	// Analyzer is the tool that reported the finding (e.g. semgrep, cargo-audit).
	Analyzer   string `json:"analyzer,omitempty" gorm:"column:analyzer"`
	ScanID     string `json:"scan_id,omitempty" gorm:"column:scan_id;index"`
	Confidence int    `json:"confidence" gorm:"column:confidence;default:0"`

	Status    FindingStatus `json:"status" gorm:"column:status;not null;index"`
	CreatedAt time.Time     `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"column:updated_at"`

	// Submission metadata, set once the finding leaves the review queue.
	SubmittedAt    *time.Time `json:"submitted_at,omitempty" gorm:"column:submitted_at"`
	BountyPlatform string     `json:"bounty_platform,omitempty" gorm:"column:bounty_platform"`
	BountyAmount   float64    `json:"bounty_amount,omitempty" gorm:"column:bounty_amount;default:0"`
	Notes          string     `json:"notes,omitempty" gorm:"column:notes"`
}

// TableName specifies the table name for Finding
func (Finding) TableName() string {
	return "findings"
}

// Fingerprint derives the stable finding identifier from the fields that
// survive re-scans unchanged. Free-text fields (title, description) are
// deliberately excluded so analyzer wording drift never forks a finding.
func Fingerprint(repoName, filePath string, line int, category string) string {
	canonical := strings.Join([]string{repoName, filePath, strconv.Itoa(line), category}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return "FND-" + fmt.Sprintf("%x", sum)[:fingerprintLength]
}

// EnsureID computes and assigns the fingerprint if it is not already set.
func (f *Finding) EnsureID() string {
	if f.ID == "" {
		f.ID = Fingerprint(f.RepoName, f.FilePath, f.Line, f.Category)
	}
	return f.ID
}

// Validate rejects malformed findings before they reach the store.
func (f *Finding) Validate() error {
	var missing []string
	if f.RepoName == "" {
		missing = append(missing, "repo_name")
	}
	if f.RepoURL == "" {
		missing = append(missing, "repo_url")
	}
	if f.FilePath == "" {
		missing = append(missing, "file_path")
	}
	if f.Category == "" {
		missing = append(missing, "category")
	}
	if f.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if err := f.Severity.Validate(); err != nil {
		return err
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.Line < 0 {
		return fmt.Errorf("line must be >= 0, got %d", f.Line)
	}
	if f.Confidence < 0 || f.Confidence > 100 {
		return fmt.Errorf("confidence must be within 0-100, got %d", f.Confidence)
	}
	if len(f.Snippet) > MaxSnippetLength {
		return fmt.Errorf("snippet exceeds %d bytes", MaxSnippetLength)
	}
	return nil
}

func (f Finding) String() string {
	return f.Pretty().String()
}

// Pretty returns a formatted text representation of the finding with styling
func (f Finding) Pretty() api.Text {
	t := api.Text{}.
		Append(f.ID, "text-gray-500").
		Append(" ").
		Append(string(f.Severity), severityStyle(f.Severity)).
		Append(" ").
		Append(f.Title)

	t = t.Append(" (", "text-gray-500").
		Append(f.FilePath).
		Append(":", "text-gray-500").
		Append(strconv.Itoa(f.Line)).
		Append(")", "text-gray-500")

	return t.Append(" [").Append(string(f.Status), statusStyle(f.Status)).Append("]")
}

func severityStyle(s Severity) string {
	switch s {
	case SeverityCritical, SeverityHigh:
		return "text-red-600"
	case SeverityMedium:
		return "text-yellow-600"
	case SeverityLow:
		return "text-green-600"
	default:
		return "text-gray-500"
	}
}

func statusStyle(s FindingStatus) string {
	switch s {
	case StatusApproved, StatusPaid:
		return "text-green-600"
	case StatusRejected:
		return "text-red-600"
	case StatusSubmitted:
		return "text-blue-500"
	default:
		return "text-yellow-600"
	}
}
