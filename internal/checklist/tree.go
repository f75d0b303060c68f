package checklist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gea/studyabroad/internal/models"
)

// ErrItemNotFound is returned when a path does not resolve to an item.
var ErrItemNotFound = errors.New("checklist item not found")

// Find resolves path, a sequence of sibling-unique ids from a root item down,
// to the addressed item. It returns nil if any step is missing.
func Find(items []models.ChecklistItem, path ...string) *models.ChecklistItem {
	if len(path) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID != path[0] {
			continue
		}
		if len(path) == 1 {
			return &items[i]
		}
		return Find(items[i].Children, path[1:]...)
	}
	return nil
}

// SetChecked sets the Checked flag of the item at path. Only that item
// changes; parents and children keep their own state.
func SetChecked(items []models.ChecklistItem, path []string, checked bool) error {
	it := Find(items, path...)
	if it == nil {
		return fmt.Errorf("%w: %s", ErrItemNotFound, strings.Join(path, "/"))
	}
	it.Checked = checked
	return nil
}

// SetApplicable sets the Applicable flag of the item at path. Marking an
// item not applicable also clears its Checked flag, so it has to be checked
// again once it becomes applicable.
func SetApplicable(items []models.ChecklistItem, path []string, applicable bool) error {
	it := Find(items, path...)
	if it == nil {
		return fmt.Errorf("%w: %s", ErrItemNotFound, strings.Join(path, "/"))
	}
	it.Applicable = applicable
	if !applicable {
		it.Checked = false
	}
	return nil
}

// UncheckAll returns a copy of items with every Checked flag cleared,
// recursively. Applicable flags are preserved.
func UncheckAll(items []models.ChecklistItem) []models.ChecklistItem {
	out := Clone(items)
	var uncheck func([]models.ChecklistItem)
	uncheck = func(list []models.ChecklistItem) {
		for i := range list {
			list[i].Checked = false
			uncheck(list[i].Children)
		}
	}
	uncheck(out)
	return out
}

// ValidateTree rejects items with an empty id or label and sibling lists
// that repeat an id.
func ValidateTree(items []models.ChecklistItem) error {
	return validateLevel(items, "")
}

func validateLevel(items []models.ChecklistItem, prefix string) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		where := fmt.Sprintf("%s[%d]", prefix, i)
		if it.ID == "" {
			return fmt.Errorf("item %s: id is required", where)
		}
		if it.Label == "" {
			return fmt.Errorf("item %s (%s): label is required", where, it.ID)
		}
		if seen[it.ID] {
			return fmt.Errorf("item %s: duplicate id %q among siblings", where, it.ID)
		}
		seen[it.ID] = true
		if err := validateLevel(it.Children, where+".children"); err != nil {
			return err
		}
	}
	return nil
}
