package services

import (
	"github.com/terraincognita07/skinderma/internal/catalog"
)

type Outcome string

const (
	OutcomeMatch          Outcome = "match"
	OutcomeNoMatch        Outcome = "no_match"
	OutcomeEmptySelection Outcome = "empty_selection"
)

type Diagnosis struct {
	Outcome   Outcome
	Condition catalog.Condition
	Score     int
	Selected  []string
}

func (diagnosis Diagnosis) Matched() bool {
	return diagnosis.Outcome == OutcomeMatch
}

// Score counts the symptoms shared by the selection and the condition.
func Score(selected catalog.Selection, condition catalog.Condition) int {
	score := 0
	for _, symptom := range condition.Symptoms {
		if selected.Contains(symptom.Name) {
			score++
		}
	}
	return score
}

// Diagnose returns the condition with the highest score. Ties go to the
// earliest condition in the slice, and a score of zero never matches.
func Diagnose(selected catalog.Selection, conditions []catalog.Condition) (catalog.Condition, bool) {
	best := -1
	bestScore := 0
	for index, condition := range conditions {
		if score := Score(selected, condition); score > bestScore {
			best = index
			bestScore = score
		}
	}
	if best < 0 {
		return catalog.Condition{}, false
	}
	return conditions[best], true
}

type DiagnosisService struct {
	catalog *catalog.Catalog
}

func NewDiagnosisService(source *catalog.Catalog) *DiagnosisService {
	return &DiagnosisService{catalog: source}
}

func (service *DiagnosisService) Catalog() *catalog.Catalog {
	return service.catalog
}

// DiagnoseNames resolves names against the catalog and runs the matcher.
// An empty selection is reported separately from a selection that matched
// nothing, although the matcher returns no condition for both.
func (service *DiagnosisService) DiagnoseNames(names []string) Diagnosis {
	return service.DiagnoseSelection(service.catalog.Select(names))
}

func (service *DiagnosisService) DiagnoseSelection(selected catalog.Selection) Diagnosis {
	result := Diagnosis{Selected: selected.Names()}

	condition, ok := Diagnose(selected, service.catalog.Conditions())
	switch {
	case selected.IsEmpty():
		result.Outcome = OutcomeEmptySelection
	case !ok:
		result.Outcome = OutcomeNoMatch
	default:
		result.Outcome = OutcomeMatch
		result.Condition = condition
		result.Score = Score(selected, condition)
	}
	return result
}
