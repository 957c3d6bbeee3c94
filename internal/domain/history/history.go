// Package history keeps the bounded daily score history and derives the
// skill growth score from it.
package history

import (
	"time"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/internal/domain/scoring"
)

// DefaultLimit is the longest history kept.
const DefaultLimit = 30

const dateLayout = "2006-01-02"

// Day returns the UTC calendar date of t.
func Day(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Record appends entry unless the history already holds an entry for the
// UTC date of now. The oldest entries are evicted past limit. The input
// slice is never modified.
func Record(h []model.ScoreEntry, entry model.ScoreEntry, now time.Time, limit int) ([]model.ScoreEntry, bool) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	today := Day(now)
	for _, e := range h {
		if Day(e.Date) == today {
			return h, false
		}
	}
	entry.Date = now.UTC()
	out := make([]model.ScoreEntry, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, entry)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, true
}

// Growth returns the skill growth score for h. With fewer than two entries
// the previous value is kept.
func Growth(h []model.ScoreEntry, previous int) int {
	if len(h) < 2 {
		return previous
	}
	first, last := h[0], h[len(h)-1]
	delta := float64((last.ProfileStrength-first.ProfileStrength)+
		(last.RoleReadiness-first.RoleReadiness)+
		(last.ResumeScore-first.ResumeScore)) / 3
	return scoring.Clamp(scoring.Round(50+delta), 0, scoring.MaxScore)
}
