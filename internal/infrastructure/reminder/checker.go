// Package reminder scans completed documents for approaching deadlines and
// raises department notifications.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// Reminders fire when a deadline is this many days out.
var reminderDays = map[int]bool{10: true, 5: true, 2: true, 1: true}

const listPageSize = 100

type Checker struct {
	documents     ports.DocumentRepository
	notifications ports.NotificationRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewChecker(documents ports.DocumentRepository, notifications ports.NotificationRepository, logger *slog.Logger) *Checker {
	return &Checker{
		documents:     documents,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// Run is one sweep over all documents. It is scheduled periodically; a
// failing document never aborts the sweep.
func (c *Checker) Run(ctx context.Context) error {
	today := dateOnly(c.now())

	for offset := 0; ; offset += listPageSize {
		docs, err := c.documents.List(ctx, listPageSize, offset)
		if err != nil {
			return fmt.Errorf("list documents for reminders: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}

		for i := range docs {
			if err := c.checkDocument(ctx, &docs[i], today); err != nil {
				c.logger.Warn("deadline check failed", "document_id", docs[i].ID, "error", err)
			}
		}

		if len(docs) < listPageSize {
			return nil
		}
	}
}

func (c *Checker) checkDocument(ctx context.Context, doc *domain.Document, today time.Time) error {
	if len(doc.Deadlines) == 0 {
		return nil
	}

	dates := map[time.Time]bool{}
	for _, mention := range doc.Deadlines {
		for _, d := range extractDates(mention) {
			dates[dateOnly(d)] = true
		}
	}

	for date := range dates {
		daysUntil := int(date.Sub(today).Hours() / 24)
		if !reminderDays[daysUntil] {
			continue
		}

		notified, err := c.alreadyNotifiedToday(ctx, doc, today)
		if err != nil {
			return err
		}
		if notified {
			continue
		}

		notification := &domain.Notification{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Department: doc.Department,
			Message: fmt.Sprintf("REMINDER: A deadline for '%s' is in %d day(s) on %s.",
				doc.Title, daysUntil, date.Format("2006-01-02")),
			CreatedAt: c.now().UTC(),
		}
		if err := c.notifications.Create(ctx, notification); err != nil {
			return fmt.Errorf("create reminder: %w", err)
		}
		c.logger.Info("deadline reminder created",
			"document_id", doc.ID, "department", doc.Department, "days_until", daysUntil)
	}
	return nil
}

// One reminder per document per day, regardless of how many deadline dates
// fall into the window.
func (c *Checker) alreadyNotifiedToday(ctx context.Context, doc *domain.Document, today time.Time) (bool, error) {
	existing, err := c.notifications.ListUnreadByDepartment(ctx, doc.Department)
	if err != nil {
		return false, fmt.Errorf("list notifications: %w", err)
	}
	for _, n := range existing {
		if n.DocumentID == doc.ID &&
			strings.HasPrefix(n.Message, "REMINDER:") &&
			dateOnly(n.CreatedAt).Equal(today) {
			return true, nil
		}
	}
	return false, nil
}

var (
	numericDateRe = regexp.MustCompile(`\b\d{2}-\d{2}-\d{4}\b`)
	slashDateRe   = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	textualDateRe = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
)

// extractDates pulls every parseable calendar date out of a mention sentence.
// Mentions are whole sentences, so candidates are cut out by pattern first
// and only then handed to the parser.
func extractDates(mention string) []time.Time {
	var dates []time.Time

	for _, m := range numericDateRe.FindAllString(mention, -1) {
		// Day-first, matching how the extraction pipeline reads dd-mm-yyyy.
		if d, err := time.Parse("02-01-2006", m); err == nil {
			dates = append(dates, d)
		}
	}
	for _, m := range slashDateRe.FindAllString(mention, -1) {
		if d, err := dateparse.ParseAny(m); err == nil {
			dates = append(dates, d)
		}
	}
	for _, m := range textualDateRe.FindAllString(mention, -1) {
		if d, err := dateparse.ParseAny(m); err == nil {
			dates = append(dates, d)
		}
	}
	return dates
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
