// Package checklist implements the progress engine for the four-stage
// document checklist: default trees, recursive completion counting and the
// flag mutations that precede a recount.
//
// Everything here is synchronous and free of I/O. Callers load a record,
// mutate it, call Recalculate, and persist it.
package checklist

import (
	"math"
	"time"

	"github.com/gea/studyabroad/internal/models"
)

// Counts is a completed/total tally before any rounding.
type Counts struct {
	Completed int
	Total     int
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{Completed: c.Completed + o.Completed, Total: c.Total + o.Total}
}

// Percentage returns the tally as a rounded percentage.
func (c Counts) Percentage() int {
	return Percentage(c.Completed, c.Total)
}

// Count tallies items depth-first. An item counts iff it is not conditional
// or is applicable; children are visited whether or not their parent counts.
func Count(items []models.ChecklistItem) Counts {
	var c Counts
	for _, it := range items {
		if it.Counted() {
			c.Total++
			if it.Checked {
				c.Completed++
			}
		}
		if len(it.Children) > 0 {
			c = c.Add(Count(it.Children))
		}
	}
	return c
}

// Percentage returns round(completed/total*100), rounding halves up, or 0
// when total is not positive. The result is clamped to [0, 100].
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	pct := int(math.Floor(float64(completed)/float64(total)*100 + 0.5))
	return min(pct, 100)
}

// Recalculate recounts every stage in fixed order, writes the per-stage and
// overall figures back into p, stamps LastUpdated with now, and returns the
// overall pre-rounding tally. It is a pure function of the item flags.
func Recalculate(p *models.ProgressTracking, now time.Time) Counts {
	var overall Counts
	for _, key := range models.StageKeys {
		stage := p.Stages.Get(key)
		c := Count(stage.Items)
		stage.Completed = c.Completed
		stage.Total = c.Total
		stage.Percentage = c.Percentage()
		overall = overall.Add(c)
	}
	p.OverallProgress = overall.Percentage()
	p.LastUpdated = now
	return overall
}

// InitializeDefaults replaces every stage's items with the default tree and
// recalculates. Any existing checked/applicable state is discarded.
func InitializeDefaults(p *models.ProgressTracking, now time.Time) {
	for _, key := range models.StageKeys {
		p.Stages.Get(key).Items = DefaultItems(key)
	}
	Recalculate(p, now)
}

// Reset restores a record to its freshly created state.
func Reset(p *models.ProgressTracking, now time.Time) {
	InitializeDefaults(p, now)
	p.CurrentStage = models.StageOffer
	p.IsCompleted = false
	p.CompletedAt = nil
}

// MarkCompleted sets the terminal markers. Counts are left untouched.
func MarkCompleted(p *models.ProgressTracking, now time.Time) {
	p.IsCompleted = true
	at := now
	p.CompletedAt = &at
}

// New returns a record for a user with the default checklists populated.
func New(userID, userName string, now time.Time) *models.ProgressTracking {
	p := &models.ProgressTracking{
		UserID:       userID,
		UserName:     userName,
		CurrentStage: models.StageOffer,
	}
	InitializeDefaults(p, now)
	return p
}
