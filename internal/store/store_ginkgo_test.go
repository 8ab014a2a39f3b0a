package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/bounty-hunter/internal/store"
	"github.com/flanksource/bounty-hunter/models"
)

var _ = Describe("Store", func() {
	var (
		s      *store.Store
		tmpDir string
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		s, err = store.OpenDir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("OpenDir", func() {
		It("should create the database successfully", func() {
			Expect(s).NotTo(BeNil())
		})
	})

	Describe("UpsertAndRetrieve", func() {
		var finding *models.Finding

		BeforeEach(func() {
			finding = &models.Finding{
				RepoName:    "solana-labs/example",
				RepoURL:     "https://github.com/solana-labs/example",
				FilePath:    "programs/vault/src/lib.rs",
				Line:        42,
				Category:    "missing-signer-check",
				Title:       "Missing signer check on withdraw",
				Description: "The withdraw handler does not verify the authority signer",
				Severity:    models.SeverityCritical,
				Analyzer:    "semgrep",
				Confidence:  85,
			}

			result, err := s.UpsertFinding(finding)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(store.Inserted))
		})

		It("should assign a deterministic identifier", func() {
			Expect(finding.ID).To(HavePrefix("FND-"))
			Expect(finding.ID).To(Equal(models.Fingerprint(
				"solana-labs/example", "programs/vault/src/lib.rs", 42, "missing-signer-check")))
		})

		It("should retrieve the stored finding correctly", func() {
			retrieved, err := s.GetFinding(finding.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.RepoName).To(Equal(finding.RepoName))
			Expect(retrieved.FilePath).To(Equal(finding.FilePath))
			Expect(retrieved.Severity).To(Equal(models.SeverityCritical))
			Expect(retrieved.Status).To(Equal(models.StatusPending))
		})

		It("should update descriptive fields on re-ingestion without duplicating", func() {
			again := *finding
			again.ID = ""
			again.Description = "reworded on the second scan"

			result, err := s.UpsertFinding(&again)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(store.Updated))

			all, err := s.ListFindings(store.FindingFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].Description).To(Equal("reworded on the second scan"))
		})

		It("should walk the approval lifecycle to Paid", func() {
			Expect(s.Transition(finding.ID, models.StatusApproved)).To(Succeed())
			Expect(s.Transition(finding.ID, models.StatusSubmitted)).To(Succeed())
			Expect(s.Transition(finding.ID, models.StatusPaid)).To(Succeed())

			retrieved, err := s.GetFinding(finding.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal(models.StatusPaid))
			Expect(retrieved.SubmittedAt).NotTo(BeNil())
		})

		It("should refuse to skip lifecycle states", func() {
			err := s.Transition(finding.ID, models.StatusPaid)
			Expect(err).To(HaveOccurred())

			retrieved, getErr := s.GetFinding(finding.ID)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(retrieved.Status).To(Equal(models.StatusPending))
		})
	})

	Describe("ScanLedger", func() {
		It("should keep statistics consistent with the findings table", func() {
			for i, sev := range []models.Severity{models.SeverityCritical, models.SeverityHigh} {
				_, err := s.UpsertFinding(&models.Finding{
					RepoName: "demo",
					RepoURL:  "https://github.com/demo/demo",
					FilePath: "lib.rs",
					Line:     i + 1,
					Category: "unchecked-arithmetic",
					Title:    "Unchecked arithmetic",
					Severity: sev,
				})
				Expect(err).NotTo(HaveOccurred())
			}

			stats, err := s.Statistics()
			Expect(err).NotTo(HaveOccurred())

			all, err := s.ListFindings(store.FindingFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TotalFindings).To(Equal(int64(len(all))))
		})
	})
})
