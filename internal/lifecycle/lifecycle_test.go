package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func newContact(status domain.ContactStatus) *domain.Contact {
	return &domain.Contact{
		ID:      "c-1",
		Company: "Acme",
		Email:   "a@acme.com",
		Status:  status,
	}
}

func TestCheckSendable(t *testing.T) {
	c := newContact(domain.ContactNew)
	require.NoError(t, CheckSendable(c))

	c.Email = ""
	assert.ErrorIs(t, CheckSendable(c), ErrNoEmail)

	c = newContact(domain.ContactUnsubscribed)
	assert.ErrorIs(t, CheckSendable(c), ErrUnsubscribed)

	c = newContact(domain.ContactBounced)
	assert.ErrorIs(t, CheckSendable(c), ErrBounced)

	// Rejections must not mutate the contact.
	assert.Equal(t, 0, c.EmailsSent)
	assert.Nil(t, c.LastContacted)
}

func TestRecordSendIncrementsAndAdvances(t *testing.T) {
	now := time.Now()
	c := newContact(domain.ContactNew)

	RecordSend(c, now)
	assert.Equal(t, 1, c.EmailsSent)
	assert.Equal(t, domain.ContactContacted, c.Status)
	require.NotNil(t, c.LastContacted)
	assert.Equal(t, now, *c.LastContacted)

	RecordSend(c, now)
	assert.Equal(t, 2, c.EmailsSent)
	assert.Equal(t, domain.ContactContacted, c.Status)
}

func TestRecordSendDoesNotRegressEngagedContact(t *testing.T) {
	now := time.Now()
	for _, status := range []domain.ContactStatus{
		domain.ContactOpened, domain.ContactClicked, domain.ContactReplied,
	} {
		c := newContact(status)
		RecordSend(c, now)
		assert.Equal(t, status, c.Status, "re-send must not regress %s", status)
		assert.Equal(t, 1, c.EmailsSent)
	}
}

func TestRecordOpen(t *testing.T) {
	now := time.Now()

	// Opens can arrive for contacts in any pre-open stage, so the permissive
	// ordinal-rank rule applies: any of these advance to opened, and opened
	// never regresses a later stage.
	for _, from := range []domain.ContactStatus{
		domain.ContactNew, domain.ContactEnriched, domain.ContactContacted,
	} {
		c := newContact(from)
		RecordOpen(c, now)
		assert.Equal(t, domain.ContactOpened, c.Status, "open from %s", from)
		assert.Equal(t, 1, c.EmailsOpened)
	}

	// No regression: a replied contact stays replied.
	c := newContact(domain.ContactReplied)
	RecordOpen(c, now)
	assert.Equal(t, domain.ContactReplied, c.Status)
	assert.Equal(t, 1, c.EmailsOpened, "counter still increments")
}

func TestRecordClick(t *testing.T) {
	now := time.Now()
	c := newContact(domain.ContactOpened)
	RecordClick(c, now)
	assert.Equal(t, domain.ContactClicked, c.Status)
	assert.Equal(t, 1, c.EmailsClicked)
	require.NotNil(t, c.LastClickedAt)
}

func TestRecordReplyStopsFollowups(t *testing.T) {
	now := time.Now()
	next := now.Add(72 * time.Hour)

	c := newContact(domain.ContactContacted)
	c.NextFollowupAt = &next

	RecordReply(c, now)
	assert.Equal(t, domain.ContactReplied, c.Status)
	assert.Nil(t, c.NextFollowupAt, "reply clears the pending follow-up")
	require.NotNil(t, c.LastRepliedAt)
}

func TestBounceAndUnsubscribeApplyFromAnyState(t *testing.T) {
	now := time.Now()
	for _, from := range domain.AllContactStatuses {
		c := newContact(from)
		RecordBounce(c)
		assert.Equal(t, domain.ContactBounced, c.Status, "bounce from %s", from)

		c = newContact(from)
		RecordUnsubscribe(c, now)
		assert.Equal(t, domain.ContactUnsubscribed, c.Status, "unsubscribe from %s", from)
		require.NotNil(t, c.UnsubscribedAt)
	}
}

func TestApplyEnrichmentMergePrecedence(t *testing.T) {
	now := time.Now()
	c := newContact(domain.ContactNew)
	c.Title = "VP Sales"
	c.Industry = ""

	ApplyEnrichment(c, EnrichmentData{
		Email:    "NEW@Acme.COM",
		Title:    "CRO", // enrichment wins over existing value
		Industry: "Software",
		// FirstName not returned: existing (empty) value kept
	}, now)

	assert.Equal(t, "new@acme.com", c.Email, "enrichment email is case-normalized")
	assert.Equal(t, "CRO", c.Title)
	assert.Equal(t, "Software", c.Industry)
	assert.Equal(t, domain.ContactEnriched, c.Status)
	require.NotNil(t, c.EnrichedAt)
}

func TestApplyEnrichmentDoesNotRegressStatus(t *testing.T) {
	now := time.Now()
	c := newContact(domain.ContactOpened)
	ApplyEnrichment(c, EnrichmentData{Industry: "Software"}, now)
	assert.Equal(t, domain.ContactOpened, c.Status)
	require.NotNil(t, c.EnrichedAt)
}

func TestStatusAlwaysInClosedSet(t *testing.T) {
	now := time.Now()
	c := newContact(domain.ContactNew)

	ops := []func(){
		func() { ApplyEnrichment(c, EnrichmentData{Industry: "x"}, now) },
		func() { RecordSend(c, now) },
		func() { RecordOpen(c, now) },
		func() { RecordClick(c, now) },
		func() { RecordReply(c, now) },
		func() { RecordBounce(c) },
		func() { RecordUnsubscribe(c, now) },
	}
	for i, op := range ops {
		op()
		assert.True(t, c.Status.Valid(), "op %d left status %q", i, c.Status)
	}
}
