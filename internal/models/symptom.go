package models

type Symptom struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null;default:''"`
	Position    int    `gorm:"not null;default:0"`
}
