package db

import (
	"github.com/terraincognita07/skinderma/internal/models"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	database *gorm.DB
}

func NewCatalogRepository(database *gorm.DB) *CatalogRepository {
	return &CatalogRepository{database: database}
}

func (repo *CatalogRepository) ListSymptoms() ([]models.Symptom, error) {
	symptoms := make([]models.Symptom, 0)
	if err := repo.database.Order("position ASC, id ASC").Find(&symptoms).Error; err != nil {
		return nil, err
	}
	return symptoms, nil
}

func (repo *CatalogRepository) ListConditions() ([]models.Condition, error) {
	conditions := make([]models.Condition, 0)
	if err := repo.database.Order("position ASC, id ASC").Find(&conditions).Error; err != nil {
		return nil, err
	}
	return conditions, nil
}

func (repo *CatalogRepository) ListConditionSymptoms() ([]models.ConditionSymptom, error) {
	links := make([]models.ConditionSymptom, 0)
	if err := repo.database.Order("condition_id ASC, position ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (repo *CatalogRepository) CreateSymptoms(symptoms []models.Symptom) error {
	if len(symptoms) == 0 {
		return nil
	}
	return repo.database.Create(&symptoms).Error
}

// CreateCondition inserts the condition and its symptom links in one transaction.
func (repo *CatalogRepository) CreateCondition(condition *models.Condition, symptomIDs []uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(condition).Error; err != nil {
			return err
		}

		links := make([]models.ConditionSymptom, 0, len(symptomIDs))
		for index, symptomID := range symptomIDs {
			links = append(links, models.ConditionSymptom{
				ConditionID: condition.ID,
				SymptomID:   symptomID,
				Position:    index,
			})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
}
