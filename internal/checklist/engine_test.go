package checklist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gea/studyabroad/internal/models"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func leaf(id string, checked bool) models.ChecklistItem {
	return models.ChecklistItem{ID: id, Label: id, Checked: checked, Applicable: true}
}

func TestInitializeDefaults(t *testing.T) {
	p := New("user-1", "Sita", now)

	tests := []struct {
		stage models.StageKey
		total int
	}{
		{models.StageOffer, 3},
		{models.StageGS, 52},
		{models.StageCOE, 2},
		{models.StageVisa, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			stage := p.Stages.Get(tt.stage)
			assert.Equal(t, tt.total, stage.Total)
			assert.Equal(t, 0, stage.Completed)
			assert.Equal(t, 0, stage.Percentage)
		})
	}

	assert.Equal(t, 0, p.OverallProgress)
	assert.Equal(t, models.StageOffer, p.CurrentStage)
	assert.Equal(t, now, p.LastUpdated)
	assert.False(t, p.IsCompleted)
}

func TestInitializeDefaults_DiscardsUserState(t *testing.T) {
	p := New("user-1", "Sita", now)
	require.NoError(t, SetChecked(p.Stages.Offer.Items, []string{"cv"}, true))
	require.NoError(t, SetApplicable(p.Stages.Offer.Items, []string{"english-test"}, true))
	Recalculate(p, now)
	require.Equal(t, 1, p.Stages.Offer.Completed)

	InitializeDefaults(p, now.Add(time.Minute))

	if diff := cmp.Diff(DefaultItems(models.StageOffer), p.Stages.Offer.Items); diff != "" {
		t.Errorf("offer items after reinitialize (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, p.Stages.Offer.Completed)
	assert.Equal(t, 3, p.Stages.Offer.Total)
}

func TestDefaultItems_ReturnsIndependentCopies(t *testing.T) {
	a := DefaultItems(models.StageGS)
	a[2].Children[0].Checked = true

	b := DefaultItems(models.StageGS)
	assert.False(t, b[2].Children[0].Checked, "mutating one copy leaked into the template")
	assert.Nil(t, DefaultItems("unknown"))
}

func TestCount_VisitsChildrenOfExcludedParent(t *testing.T) {
	items := []models.ChecklistItem{
		{
			ID: "salary", Label: "Salary", Conditional: true, Applicable: false, Checked: true,
			Children: []models.ChecklistItem{leaf("certificate", true), leaf("statement", false)},
		},
	}

	got := Count(items)
	assert.Equal(t, Counts{Completed: 1, Total: 2}, got)
}

func TestCount_EmptyAndNil(t *testing.T) {
	assert.Equal(t, Counts{}, Count(nil))
	assert.Equal(t, Counts{}, Count([]models.ChecklistItem{}))
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"zero total", 0, 0, 0},
		{"nothing checked", 0, 7, 0},
		{"all checked", 4, 4, 100},
		{"half rounds up", 1, 8, 13},
		{"below half rounds down", 1, 3, 33},
		{"two thirds", 2, 3, 67},
		{"over-count clamps", 5, 4, 100},
		{"negative total", 1, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percentage(tt.completed, tt.total))
		})
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	p := New("user-1", "Sita", now)
	require.NoError(t, SetChecked(p.Stages.GS.Items, []string{"income", "salary", "pan-card"}, true))
	require.NoError(t, SetApplicable(p.Stages.GS.Items, []string{"income", "salary"}, true))
	require.NoError(t, SetChecked(p.Stages.Visa.Items, []string{"biometric"}, true))

	first := Recalculate(p, now)
	snapshot := p.Stages

	second := Recalculate(p, now.Add(time.Hour))

	assert.Equal(t, first, second)
	if diff := cmp.Diff(snapshot, p.Stages); diff != "" {
		t.Errorf("second recalculation changed stages (-first +second):\n%s", diff)
	}
	assert.Equal(t, now.Add(time.Hour), p.LastUpdated)
}

func TestRecalculate_ConditionalExclusion(t *testing.T) {
	p := New("user-1", "Sita", now)
	Recalculate(p, now)
	before := p.Stages.Offer

	// english-test is conditional and not applicable by default.
	require.NoError(t, SetChecked(p.Stages.Offer.Items, []string{"english-test"}, true))
	Recalculate(p, now)
	assert.Equal(t, before.Total, p.Stages.Offer.Total)
	assert.Equal(t, before.Completed, p.Stages.Offer.Completed)

	require.NoError(t, SetChecked(p.Stages.Offer.Items, []string{"english-test"}, false))
	Recalculate(p, now)
	assert.Equal(t, before.Completed, p.Stages.Offer.Completed)

	// Once applicable, the same item counts.
	require.NoError(t, SetApplicable(p.Stages.Offer.Items, []string{"english-test"}, true))
	Recalculate(p, now)
	assert.Equal(t, before.Total+1, p.Stages.Offer.Total)
}

func TestRecalculate_OverallFromSummedCounts(t *testing.T) {
	p := &models.ProgressTracking{}
	p.Stages.Offer.Items = []models.ChecklistItem{leaf("a", true)}
	p.Stages.GS.Items = []models.ChecklistItem{
		leaf("b", true), leaf("c", false), leaf("d", false), leaf("e", false),
	}

	overall := Recalculate(p, now)

	assert.Equal(t, Counts{Completed: 2, Total: 5}, overall)
	assert.Equal(t, 100, p.Stages.Offer.Percentage)
	assert.Equal(t, 25, p.Stages.GS.Percentage)
	assert.Equal(t, 40, p.OverallProgress, "overall must be 2/5, not the mean of 100 and 25")

	var sum Counts
	for _, key := range models.StageKeys {
		s := p.Stages.Get(key)
		sum = sum.Add(Counts{Completed: s.Completed, Total: s.Total})
	}
	assert.Equal(t, overall, sum)
}

func TestRecalculate_MissingItemsCountAsZero(t *testing.T) {
	p := &models.ProgressTracking{}
	p.Stages.Visa.Items = []models.ChecklistItem{leaf("biometric", true)}

	Recalculate(p, now)

	assert.Equal(t, 0, p.Stages.Offer.Total)
	assert.Equal(t, 0, p.Stages.Offer.Percentage)
	assert.Equal(t, 100, p.Stages.Visa.Percentage)
	assert.Equal(t, 100, p.OverallProgress)
}

func TestRecalculate_DoesNotTouchCompletionMarkers(t *testing.T) {
	p := New("user-1", "Sita", now)
	for _, key := range models.StageKeys {
		stage := p.Stages.Get(key)
		stage.Items = UncheckAll(stage.Items)
	}
	MarkCompleted(p, now)

	Recalculate(p, now.Add(time.Minute))

	assert.True(t, p.IsCompleted)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, now, *p.CompletedAt)
}

func TestReset(t *testing.T) {
	p := New("user-1", "Sita", now)
	p.CurrentStage = models.StageVisa
	require.NoError(t, SetChecked(p.Stages.COE.Items, []string{"oshc"}, true))
	MarkCompleted(p, now)

	Reset(p, now.Add(time.Hour))

	assert.Equal(t, models.StageOffer, p.CurrentStage)
	assert.False(t, p.IsCompleted)
	assert.Nil(t, p.CompletedAt)
	assert.Equal(t, 0, p.Stages.COE.Completed)
	assert.Equal(t, now.Add(time.Hour), p.LastUpdated)
}

func TestChecklistItem_ApplicableDefaultsToTrue(t *testing.T) {
	var items []models.ChecklistItem
	err := json.Unmarshal([]byte(`[
		{"id": "bank-loan", "label": "Bank Loan", "conditional": true, "children": [
			{"id": "deed", "label": "Mortgage Deed", "checked": true}
		]},
		{"id": "balance", "label": "Bank balance", "conditional": true, "applicable": false}
	]`), &items)
	require.NoError(t, err)

	assert.True(t, items[0].Applicable)
	assert.True(t, items[0].Children[0].Applicable)
	assert.False(t, items[1].Applicable)
	assert.Equal(t, Counts{Completed: 1, Total: 2}, Count(items))
}
