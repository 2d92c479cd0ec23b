package catalog

import (
	"sort"
	"strings"
)

// Selection is a set of symptom names picked by the user. Membership ignores
// case, like every other name lookup in the catalog.
type Selection struct {
	// names maps the normalized name to the name as it was added.
	names map[string]string
	order func(string) int
}

// NewSelection builds a selection straight from symptoms, without resolving
// them against a catalog. Blank names are skipped.
func NewSelection(symptoms ...Symptom) Selection {
	selection := Selection{names: make(map[string]string, len(symptoms))}
	for _, symptom := range symptoms {
		selection.add(symptom.Name)
	}
	return selection
}

func (selection Selection) add(name string) {
	display := strings.TrimSpace(name)
	if display == "" {
		return
	}
	key := normalizeName(display)
	if _, exists := selection.names[key]; !exists {
		selection.names[key] = display
	}
}

func (selection Selection) Contains(name string) bool {
	_, ok := selection.names[normalizeName(name)]
	return ok
}

func (selection Selection) Len() int {
	return len(selection.names)
}

func (selection Selection) IsEmpty() bool {
	return len(selection.names) == 0
}

// With returns a new selection that also contains symptom.
func (selection Selection) With(symptom Symptom) Selection {
	result := Selection{names: make(map[string]string, len(selection.names)+1), order: selection.order}
	for key, display := range selection.names {
		result.names[key] = display
	}
	result.add(symptom.Name)
	return result
}

// Names returns the selected names in catalog display order when the
// selection came from Catalog.Select, alphabetically otherwise.
func (selection Selection) Names() []string {
	result := make([]string, 0, len(selection.names))
	for _, display := range selection.names {
		result = append(result, display)
	}
	sort.Slice(result, func(i, j int) bool {
		if selection.order != nil {
			left, right := selection.order(result[i]), selection.order(result[j])
			if left != right {
				return left < right
			}
		}
		return result[i] < result[j]
	})
	return result
}
