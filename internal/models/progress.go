package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// StageKey identifies one of the four fixed checklist stages.
type StageKey string

const (
	StageOffer StageKey = "offer"
	StageGS    StageKey = "gs"
	StageCOE   StageKey = "coe"
	StageVisa  StageKey = "visa"
)

// StageKeys lists the stages in their fixed processing order.
var StageKeys = []StageKey{StageOffer, StageGS, StageCOE, StageVisa}

// Valid reports whether k names one of the four stages.
func (k StageKey) Valid() bool {
	switch k {
	case StageOffer, StageGS, StageCOE, StageVisa:
		return true
	}
	return false
}

// ParseStage converts a raw stage name into a StageKey.
func ParseStage(s string) (StageKey, error) {
	k := StageKey(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid stage %q: must be one of offer, gs, coe, visa", s)
	}
	return k, nil
}

// ChecklistItem is a single requirement in a stage checklist.
// Items nest: Children are sub-requirements whose state is independent of
// the parent's own Checked flag.
type ChecklistItem struct {
	// ID is unique among its siblings only.
	ID string `json:"id"`

	// Label is the human-readable requirement (e.g., "Passport submitted").
	Label string `json:"label"`

	// Checked is the user-toggled completion flag.
	Checked bool `json:"checked"`

	// Conditional marks an item that only counts when Applicable is also true.
	Conditional bool `json:"conditional"`

	// Applicable is meaningful only for conditional items. Defaults to true
	// when absent from a JSON document.
	Applicable bool `json:"applicable"`

	// Children are the item's sub-requirements, in display order.
	Children []ChecklistItem `json:"children,omitempty"`
}

// UnmarshalJSON decodes an item, defaulting Applicable to true when the
// field is missing.
func (it *ChecklistItem) UnmarshalJSON(data []byte) error {
	type plain ChecklistItem
	p := plain{Applicable: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = ChecklistItem(p)
	return nil
}

// Counted reports whether the item contributes to completed/total tallies.
func (it ChecklistItem) Counted() bool {
	return !it.Conditional || it.Applicable
}

// Stage holds one stage's checklist and the tallies derived from it.
type Stage struct {
	// Items is the root-level checklist for the stage.
	Items []ChecklistItem `json:"items"`

	// Completed is the number of counted items that are checked.
	Completed int `json:"completed"`

	// Total is the number of counted items.
	Total int `json:"total"`

	// Percentage is round(Completed/Total*100), or 0 when Total is 0.
	Percentage int `json:"percentage"`
}

// UnmarshalJSON decodes a stage. A stage that is not an object, or whose
// items are not a well-formed item array, decodes as an empty checklist with
// zeroed tallies instead of failing.
func (s *Stage) UnmarshalJSON(data []byte) error {
	type plain Stage
	var raw struct {
		plain
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = Stage{}
		return nil
	}
	*s = Stage(raw.plain)
	s.Items = nil
	if len(raw.Items) == 0 {
		return nil
	}
	var items []ChecklistItem
	if err := json.Unmarshal(raw.Items, &items); err != nil {
		*s = Stage{}
		return nil
	}
	s.Items = items
	return nil
}

// Stages groups the four fixed stages of a progress record.
type Stages struct {
	Offer Stage `json:"offer"`
	GS    Stage `json:"gs"`
	COE   Stage `json:"coe"`
	Visa  Stage `json:"visa"`
}

// Get returns the stage for key, or nil if key is not a valid stage.
func (s *Stages) Get(key StageKey) *Stage {
	switch key {
	case StageOffer:
		return &s.Offer
	case StageGS:
		return &s.GS
	case StageCOE:
		return &s.COE
	case StageVisa:
		return &s.Visa
	}
	return nil
}

// ProgressTracking is the per-user document tracking document submission
// through the four stages.
type ProgressTracking struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// UserID is the external user identifier. One record per user.
	UserID string `json:"userId"`

	// UserName is a denormalized display name.
	UserName string `json:"userName"`

	// Stages holds the four checklists.
	Stages Stages `json:"stages"`

	// OverallProgress is computed from the summed counts of all stages,
	// not from averaging stage percentages.
	OverallProgress int `json:"overallProgress"`

	// CurrentStage is a pointer advanced by the client. Defaults to offer.
	CurrentStage StageKey `json:"currentStage"`

	// LastUpdated is refreshed every time totals are recalculated.
	LastUpdated time.Time `json:"lastUpdated"`

	// IsCompleted and CompletedAt are terminal markers set explicitly by the
	// client; recalculation never touches them.
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt"`

	// Version is incremented by the store on every save and used to detect
	// concurrent writers.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
