package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/terraincognita07/skinderma/internal/catalog"
	"github.com/terraincognita07/skinderma/internal/models"
)

var (
	ErrSeedCatalogFailed = errors.New("seed catalog failed")
	ErrLoadCatalogFailed = errors.New("load catalog failed")
	ErrCatalogDrift      = errors.New("stored catalog differs from builtin catalog")
)

type CatalogRepository interface {
	ListSymptoms() ([]models.Symptom, error)
	ListConditions() ([]models.Condition, error)
	ListConditionSymptoms() ([]models.ConditionSymptom, error)
	CreateSymptoms(symptoms []models.Symptom) error
	CreateCondition(condition *models.Condition, symptomIDs []uint) error
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// EnsureBuiltinCatalog inserts builtin symptoms and conditions that are not
// stored yet. Running it twice leaves the tables unchanged.
func (service *CatalogService) EnsureBuiltinCatalog() error {
	if err := service.ensureBuiltinSymptoms(); err != nil {
		return fmt.Errorf("%w: %v", ErrSeedCatalogFailed, err)
	}
	if err := service.ensureBuiltinConditions(); err != nil {
		return fmt.Errorf("%w: %v", ErrSeedCatalogFailed, err)
	}
	return nil
}

// Load reads the stored catalog in order and validates it.
func (service *CatalogService) Load() (*catalog.Catalog, error) {
	symptomRows, err := service.repo.ListSymptoms()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalogFailed, err)
	}
	conditionRows, err := service.repo.ListConditions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalogFailed, err)
	}
	links, err := service.repo.ListConditionSymptoms()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCatalogFailed, err)
	}

	symptoms := make([]catalog.Symptom, 0, len(symptomRows))
	symptomByID := make(map[uint]catalog.Symptom, len(symptomRows))
	for _, row := range symptomRows {
		symptom := catalog.Symptom{Name: row.Name, Description: row.Description}
		symptoms = append(symptoms, symptom)
		symptomByID[row.ID] = symptom
	}

	linked := make(map[uint][]catalog.Symptom, len(conditionRows))
	for _, link := range links {
		symptom, ok := symptomByID[link.SymptomID]
		if !ok {
			return nil, fmt.Errorf("%w: condition %d links missing symptom %d", ErrLoadCatalogFailed, link.ConditionID, link.SymptomID)
		}
		linked[link.ConditionID] = append(linked[link.ConditionID], symptom)
	}

	conditions := make([]catalog.Condition, 0, len(conditionRows))
	for _, row := range conditionRows {
		conditions = append(conditions, catalog.Condition{
			Name:      row.Name,
			Symptoms:  linked[row.ID],
			Treatment: row.Treatment,
		})
	}

	loaded, err := catalog.New(symptoms, conditions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalogFailed, err)
	}
	return loaded, nil
}

// SeedAndLoad is the startup path: builtin rows first, then the validated
// catalog. A stored catalog that no longer equals the builtin one (edited
// rows, extra rows, different order) is rejected with ErrCatalogDrift.
func (service *CatalogService) SeedAndLoad() (*catalog.Catalog, error) {
	if err := service.EnsureBuiltinCatalog(); err != nil {
		return nil, err
	}
	loaded, err := service.Load()
	if err != nil {
		return nil, err
	}

	builtin, err := catalog.Builtin()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalogFailed, err)
	}
	if diff := catalogDifference(builtin, loaded); diff != "" {
		return nil, fmt.Errorf("%w: %s", ErrCatalogDrift, diff)
	}
	return loaded, nil
}

func catalogDifference(want *catalog.Catalog, got *catalog.Catalog) string {
	wantSymptoms, gotSymptoms := want.Symptoms(), got.Symptoms()
	if len(wantSymptoms) != len(gotSymptoms) {
		return fmt.Sprintf("%d symptoms stored, want %d", len(gotSymptoms), len(wantSymptoms))
	}
	for index := range wantSymptoms {
		if wantSymptoms[index] != gotSymptoms[index] {
			return fmt.Sprintf("symptom %d is %q, want %q", index+1, gotSymptoms[index].Name, wantSymptoms[index].Name)
		}
	}

	wantConditions, gotConditions := want.Conditions(), got.Conditions()
	if len(wantConditions) != len(gotConditions) {
		return fmt.Sprintf("%d conditions stored, want %d", len(gotConditions), len(wantConditions))
	}
	for index := range wantConditions {
		expected, stored := wantConditions[index], gotConditions[index]
		if expected.Name != stored.Name ||
			!slices.Equal(expected.Symptoms, stored.Symptoms) ||
			!slices.Equal(expected.Treatment, stored.Treatment) {
			return fmt.Sprintf("condition %d %q does not match builtin %q", index+1, stored.Name, expected.Name)
		}
	}
	return ""
}

func (service *CatalogService) ensureBuiltinSymptoms() error {
	existing, err := service.repo.ListSymptoms()
	if err != nil {
		return err
	}
	existingByName := make(map[string]struct{}, len(existing))
	for _, symptom := range existing {
		existingByName[normalizeCatalogName(symptom.Name)] = struct{}{}
	}

	missing := make([]models.Symptom, 0)
	for index, symptom := range catalog.BuiltinSymptoms() {
		if _, ok := existingByName[normalizeCatalogName(symptom.Name)]; ok {
			continue
		}
		missing = append(missing, models.Symptom{
			Name:        symptom.Name,
			Description: symptom.Description,
			Position:    index,
		})
	}
	return service.repo.CreateSymptoms(missing)
}

func (service *CatalogService) ensureBuiltinConditions() error {
	symptoms, err := service.repo.ListSymptoms()
	if err != nil {
		return err
	}
	symptomIDs := make(map[string]uint, len(symptoms))
	for _, symptom := range symptoms {
		symptomIDs[normalizeCatalogName(symptom.Name)] = symptom.ID
	}

	existing, err := service.repo.ListConditions()
	if err != nil {
		return err
	}
	existingByName := make(map[string]struct{}, len(existing))
	for _, condition := range existing {
		existingByName[normalizeCatalogName(condition.Name)] = struct{}{}
	}

	for index, condition := range catalog.BuiltinConditions() {
		if _, ok := existingByName[normalizeCatalogName(condition.Name)]; ok {
			continue
		}

		ids := make([]uint, 0, len(condition.Symptoms))
		for _, symptom := range condition.Symptoms {
			id, ok := symptomIDs[normalizeCatalogName(symptom.Name)]
			if !ok {
				return fmt.Errorf("condition %s references unknown symptom %s", condition.Name, symptom.Name)
			}
			ids = append(ids, id)
		}

		record := models.Condition{
			Name:      condition.Name,
			Treatment: append([]string(nil), condition.Treatment...),
			Position:  index,
		}
		if err := service.repo.CreateCondition(&record, ids); err != nil {
			return err
		}
	}
	return nil
}

func normalizeCatalogName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
