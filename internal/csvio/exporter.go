package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// exportHeader is the fixed export column order. Company, email, and segment
// round-trip through an import of the exported file.
var exportHeader = []string{
	"company", "email", "first_name", "last_name", "title",
	"segment", "status", "emails_sent", "followup_count", "last_contacted_at",
}

// Export writes contacts as CSV.
func Export(w io.Writer, contacts []domain.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range contacts {
		c := &contacts[i]
		row := []string{
			c.Company, c.Email, c.FirstName, c.LastName, c.Title,
			c.Segment, string(c.Status),
			strconv.Itoa(c.EmailsSent), strconv.Itoa(c.FollowupCount),
			formatTime(c.LastContacted),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
