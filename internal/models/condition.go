package models

type Condition struct {
	ID        uint     `gorm:"primaryKey"`
	Name      string   `gorm:"not null"`
	Treatment []string `gorm:"serializer:json"`
	Position  int      `gorm:"not null;default:0"`
}

// ConditionSymptom links a condition to one of its associated symptoms.
type ConditionSymptom struct {
	ConditionID uint `gorm:"primaryKey"`
	SymptomID   uint `gorm:"primaryKey"`
	Position    int  `gorm:"not null;default:0"`
}
