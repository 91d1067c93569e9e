package csvio

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/contact"
)

type memRepo struct {
	store map[string]*domain.Contact
}

func newMemRepo() *memRepo {
	return &memRepo{store: make(map[string]*domain.Contact)}
}

func (m *memRepo) List(_ context.Context, _ contact.ListFilter) ([]domain.Contact, error) {
	var out []domain.Contact
	for _, c := range m.store {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Contact, error) {
	c, ok := m.store[id]
	if !ok {
		return nil, contact.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*domain.Contact, error) {
	for _, c := range m.store {
		if c.Email == email && email != "" {
			cp := *c
			return &cp, nil
		}
	}
	return nil, contact.ErrNotFound
}

func (m *memRepo) Create(_ context.Context, c *domain.Contact) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	cp := *c
	m.store[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) Update(_ context.Context, c *domain.Contact) error {
	if _, ok := m.store[c.ID]; !ok {
		return contact.ErrNotFound
	}
	cp := *c
	m.store[cp.ID] = &cp
	return nil
}

func (m *memRepo) ListDueFollowups(_ context.Context, _ time.Time, _ int) ([]domain.Contact, error) {
	return nil, nil
}

func (m *memRepo) byEmail(email string) *domain.Contact {
	for _, c := range m.store {
		if c.Email == email {
			return c
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// column mapping
// ---------------------------------------------------------------------------

func TestMapColumnsAliases(t *testing.T) {
	m := MapColumns([]string{"Company Name", "E-Mail", "First Name", "Job_Title", "LinkedIn"})
	if m == nil {
		t.Fatal("mapping is nil")
	}
	row := []string{"Acme", "ada@acme.com", "Ada", "CTO", "https://linkedin.com/in/ada"}
	if got := m.Value(row, FieldCompany); got != "Acme" {
		t.Errorf("company = %q", got)
	}
	if got := m.Value(row, FieldEmail); got != "ada@acme.com" {
		t.Errorf("email = %q", got)
	}
	if got := m.Value(row, FieldTitle); got != "CTO" {
		t.Errorf("title = %q", got)
	}
	if got := m.Value(row, FieldLinkedIn); got != "https://linkedin.com/in/ada" {
		t.Errorf("linkedin = %q", got)
	}
}

func TestMapColumnsStripsBOM(t *testing.T) {
	m := MapColumns([]string{"\uFEFFemail", "company"})
	if m == nil || !m.Has(FieldEmail) || !m.Has(FieldCompany) {
		t.Fatalf("BOM header not mapped: %+v", m)
	}
}

func TestMapColumnsHeaderless(t *testing.T) {
	m := MapColumnsHeaderless([]string{"Acme", "ada@acme.com", "whatever"})
	if m == nil {
		t.Fatal("mapping is nil")
	}
	row := []string{"Acme", "ada@acme.com", "x"}
	if got := m.Value(row, FieldEmail); got != "ada@acme.com" {
		t.Errorf("email = %q", got)
	}
	if got := m.Value(row, FieldCompany); got != "Acme" {
		t.Errorf("company = %q", got)
	}

	if MapColumnsHeaderless([]string{"just", "words"}) != nil {
		t.Error("row without an email column should not map")
	}
}

// ---------------------------------------------------------------------------
// import
// ---------------------------------------------------------------------------

func TestImportCreatesContacts(t *testing.T) {
	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))

	csvBody := "company,email,name,title,segment\n" +
		"Acme,Ada@Acme.com,Ada Lovelace,CTO,fintech\n" +
		"Beta,bob@beta.io,Bob,CEO,retail\n"

	report, err := im.Import(context.Background(), strings.NewReader(csvBody), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Created != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}

	ada := repo.byEmail("ada@acme.com")
	if ada == nil {
		t.Fatal("email not lowercased on import")
	}
	if ada.FirstName != "Ada" || ada.LastName != "Lovelace" {
		t.Errorf("full name not split: %q %q", ada.FirstName, ada.LastName)
	}
	if ada.Status != domain.ContactNew {
		t.Errorf("status = %s", ada.Status)
	}
	if ada.Segment != "fintech" {
		t.Errorf("segment = %q", ada.Segment)
	}
}

func TestImportReimportKeepsExisting(t *testing.T) {
	repo := newMemRepo()
	svc := contact.NewService(repo)
	im := NewImporter(svc)

	existing, err := svc.Create(context.Background(), &domain.Contact{
		Company: "Acme", Email: "ada@acme.com", Status: domain.ContactContacted,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo.store[existing.ID].EmailsSent = 3

	report, err := im.Import(context.Background(),
		strings.NewReader("company,email\nAcme Corp,ada@acme.com\n"), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Existed != 1 || report.Created != 0 {
		t.Fatalf("report = %+v", report)
	}

	// Engagement history survives the re-import.
	got := repo.store[existing.ID]
	if got.EmailsSent != 3 || got.Status != domain.ContactContacted {
		t.Errorf("re-import clobbered contact: %+v", got)
	}
}

func TestImportHeaderlessFile(t *testing.T) {
	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))

	report, err := im.Import(context.Background(),
		strings.NewReader("Acme,ada@acme.com\nBeta,bob@beta.io\n"), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	// The sniffed first row is data, not a header.
	if report.Rows != 2 || report.Created != 2 {
		t.Fatalf("report = %+v", report)
	}
}

func TestImportCompanyFallsBackToEmailDomain(t *testing.T) {
	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))

	report, err := im.Import(context.Background(),
		strings.NewReader("email\nada@acme.com\n"), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := repo.byEmail("ada@acme.com").Company; got != "acme" {
		t.Errorf("company = %q", got)
	}
}

func TestImportSkipsEmptyRows(t *testing.T) {
	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))

	report, err := im.Import(context.Background(),
		strings.NewReader("company,email\nAcme,ada@acme.com\n,\n"), ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Created != 1 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Errors[0].Reason != "missing_company_and_email" {
		t.Errorf("reason = %q", report.Errors[0].Reason)
	}
}

func TestImportSegmentOverride(t *testing.T) {
	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))

	_, err := im.Import(context.Background(),
		strings.NewReader("company,email,segment\nAcme,ada@acme.com,old\n"),
		ImportOptions{Segment: "q3-fintech", Tags: []string{"conference"}})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	got := repo.byEmail("ada@acme.com")
	if got.Segment != "q3-fintech" {
		t.Errorf("segment = %q", got.Segment)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "conference" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestImportUnusableFile(t *testing.T) {
	im := NewImporter(contact.NewService(newMemRepo()))
	_, err := im.Import(context.Background(), strings.NewReader("colors\nred\nblue\n"), ImportOptions{})
	if err != ErrNoMapping {
		t.Fatalf("err = %v, want ErrNoMapping", err)
	}
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func TestExportImportRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	contacts := []domain.Contact{
		{Company: "Acme", Email: "ada@acme.com", FirstName: "Ada", Segment: "fintech",
			Status: domain.ContactContacted, EmailsSent: 2, LastContacted: &now},
		{Company: "Beta", Email: "bob@beta.io", Segment: "retail", Status: domain.ContactNew},
	}

	var buf bytes.Buffer
	if err := Export(&buf, contacts); err != nil {
		t.Fatalf("Export: %v", err)
	}

	repo := newMemRepo()
	im := NewImporter(contact.NewService(repo))
	report, err := im.Import(context.Background(), &buf, ImportOptions{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("report = %+v", report)
	}

	for _, want := range contacts {
		got := repo.byEmail(want.Email)
		if got == nil {
			t.Fatalf("contact %s lost in round trip", want.Email)
		}
		if got.Company != want.Company || got.Segment != want.Segment {
			t.Errorf("round trip mismatch for %s: %+v", want.Email, got)
		}
	}
}

// ---------------------------------------------------------------------------
// paths
// ---------------------------------------------------------------------------

func TestParseS3Path(t *testing.T) {
	bucket, key, err := parseS3Path("s3://leads/2026/q3.csv")
	if err != nil {
		t.Fatalf("parseS3Path: %v", err)
	}
	if bucket != "leads" || key != "2026/q3.csv" {
		t.Errorf("bucket=%q key=%q", bucket, key)
	}

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/"} {
		if _, _, err := parseS3Path(bad); err == nil {
			t.Errorf("parseS3Path(%q) should fail", bad)
		}
	}

	if !IsS3Path("s3://b/k") || IsS3Path("/tmp/leads.csv") {
		t.Error("IsS3Path misclassifies")
	}
}
