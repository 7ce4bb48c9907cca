package models

import "time"

type Job struct {
	ID            string           `gorm:"size:36;primaryKey"`
	ExternalJobID string           `gorm:"size:64;not null;uniqueIndex"`
	Title         string           `gorm:"size:255;not null"`
	ClientName    string           `gorm:"size:255;not null"`
	Branch        string           `gorm:"size:16;not null;index"`
	Status        string           `gorm:"size:16;not null"`
	AreaM2        float64          `gorm:"not null;default:0"`
	TotalItems    int              `gorm:"not null;default:0"`
	TotalQuantity float64          `gorm:"not null;default:0"`
	RawProducts   string           `gorm:"type:text;not null"`
	Items         []JobItem        `gorm:"foreignKey:JobID"`
	Assignments   []ItemAssignment `gorm:"foreignKey:JobID"`
	ScheduledDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Job) TableName() string {
	return "jobs"
}

type JobItem struct {
	ID                       string `gorm:"size:36;primaryKey"`
	JobID                    string `gorm:"size:36;not null;index"`
	SourceIndex              int    `gorm:"not null"`
	Name                     string `gorm:"size:512;not null"`
	RawDescription           string `gorm:"type:text;not null"`
	Quantity                 float64
	WidthM                   *float64
	HeightM                  *float64
	Copies                   int
	UnitAreaM2               *float64
	TotalAreaM2              *float64
	FamilyName               string `gorm:"size:120;not null"`
	ClassificationConfidence float64
	UnitPrice                float64
	TotalValue               float64
}

func (JobItem) TableName() string {
	return "job_items"
}

type ItemAssignment struct {
	ID               int64  `gorm:"primaryKey"`
	JobID            string `gorm:"size:36;not null;uniqueIndex:ux_item_assignment,priority:1"`
	ItemID           string `gorm:"size:36;not null;uniqueIndex:ux_item_assignment,priority:2"`
	InstallerID      string `gorm:"size:36;not null;uniqueIndex:ux_item_assignment,priority:3;index"`
	AssignedAreaM2   *float64
	Status           string `gorm:"size:16;not null"`
	DifficultyLevel  *int
	ScenarioCategory *string `gorm:"size:32"`
	AssignedAt       time.Time
}

func (ItemAssignment) TableName() string {
	return "item_assignments"
}
