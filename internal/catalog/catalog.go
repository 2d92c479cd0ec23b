// Package catalog holds the fixed set of skin symptoms and conditions the
// matcher works against. A Catalog is built once at startup and never
// mutated afterwards, so it can be shared between goroutines freely.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCatalog             = errors.New("catalog has no conditions")
	ErrEmptySymptomName         = errors.New("symptom name is empty")
	ErrEmptyConditionName       = errors.New("condition name is empty")
	ErrDuplicateSymptom         = errors.New("duplicate symptom")
	ErrDuplicateCondition       = errors.New("duplicate condition")
	ErrConditionWithoutSymptoms = errors.New("condition has no symptoms")
	ErrUnknownSymptom           = errors.New("unknown symptom")
)

type Symptom struct {
	Name        string
	Description string
}

type Condition struct {
	Name      string
	Symptoms  []Symptom
	Treatment []string
}

type Catalog struct {
	symptoms     []Symptom
	conditions   []Condition
	symptomIndex map[string]int
}

// New validates symptoms and conditions and returns an immutable catalog.
// Conditions keep the order they were given in; that order decides ties
// during diagnosis.
func New(symptoms []Symptom, conditions []Condition) (*Catalog, error) {
	if len(conditions) == 0 {
		return nil, ErrEmptyCatalog
	}

	result := &Catalog{
		symptoms:     make([]Symptom, 0, len(symptoms)),
		conditions:   make([]Condition, 0, len(conditions)),
		symptomIndex: make(map[string]int, len(symptoms)),
	}

	for _, symptom := range symptoms {
		name := strings.TrimSpace(symptom.Name)
		if name == "" {
			return nil, ErrEmptySymptomName
		}
		key := normalizeName(name)
		if _, exists := result.symptomIndex[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSymptom, name)
		}
		result.symptomIndex[key] = len(result.symptoms)
		result.symptoms = append(result.symptoms, Symptom{Name: name, Description: symptom.Description})
	}

	seenConditions := make(map[string]struct{}, len(conditions))
	for _, condition := range conditions {
		name := strings.TrimSpace(condition.Name)
		if name == "" {
			return nil, ErrEmptyConditionName
		}
		key := normalizeName(name)
		if _, exists := seenConditions[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCondition, name)
		}
		seenConditions[key] = struct{}{}

		if len(condition.Symptoms) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrConditionWithoutSymptoms, name)
		}

		associated := make([]Symptom, 0, len(condition.Symptoms))
		seenSymptoms := make(map[string]struct{}, len(condition.Symptoms))
		for _, symptom := range condition.Symptoms {
			index, ok := result.symptomIndex[normalizeName(symptom.Name)]
			if !ok {
				return nil, fmt.Errorf("%w: %q in condition %s", ErrUnknownSymptom, symptom.Name, name)
			}
			canonical := result.symptoms[index]
			if _, dup := seenSymptoms[canonical.Name]; dup {
				continue
			}
			seenSymptoms[canonical.Name] = struct{}{}
			associated = append(associated, canonical)
		}

		result.conditions = append(result.conditions, Condition{
			Name:      name,
			Symptoms:  associated,
			Treatment: append([]string(nil), condition.Treatment...),
		})
	}

	return result, nil
}

// Symptoms returns a copy of the global symptom list in display order.
func (catalog *Catalog) Symptoms() []Symptom {
	return append([]Symptom(nil), catalog.symptoms...)
}

// Conditions returns a deep copy of the conditions in catalog order.
func (catalog *Catalog) Conditions() []Condition {
	result := make([]Condition, len(catalog.conditions))
	for index, condition := range catalog.conditions {
		result[index] = copyCondition(condition)
	}
	return result
}

func (catalog *Catalog) Len() int {
	return len(catalog.conditions)
}

func (catalog *Catalog) Symptom(name string) (Symptom, bool) {
	index, ok := catalog.symptomIndex[normalizeName(name)]
	if !ok {
		return Symptom{}, false
	}
	return catalog.symptoms[index], true
}

func (catalog *Catalog) Condition(name string) (Condition, bool) {
	key := normalizeName(name)
	for _, condition := range catalog.conditions {
		if normalizeName(condition.Name) == key {
			return copyCondition(condition), true
		}
	}
	return Condition{}, false
}

// Select resolves user supplied names against the global symptom set.
// Unknown names and duplicates are dropped.
func (catalog *Catalog) Select(names []string) Selection {
	selection := Selection{names: make(map[string]string, len(names))}
	for _, name := range names {
		symptom, ok := catalog.Symptom(name)
		if !ok {
			continue
		}
		selection.add(symptom.Name)
	}
	selection.order = catalog.orderOf
	return selection
}

func (catalog *Catalog) orderOf(name string) int {
	index, ok := catalog.symptomIndex[normalizeName(name)]
	if !ok {
		return len(catalog.symptoms)
	}
	return index
}

func copyCondition(condition Condition) Condition {
	return Condition{
		Name:      condition.Name,
		Symptoms:  append([]Symptom(nil), condition.Symptoms...),
		Treatment: append([]string(nil), condition.Treatment...),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
