package models

import "time"

type Installer struct {
	ID        string `gorm:"size:36;primaryKey"`
	UserID    string `gorm:"size:64;not null;default:''"`
	FullName  string `gorm:"size:255;not null"`
	Branch    string `gorm:"size:16;not null;default:''"`
	Phone     string `gorm:"size:32;not null;default:''"`
	CreatedAt time.Time
}

func (Installer) TableName() string {
	return "installers"
}

type ProductFamily struct {
	ID          string `gorm:"size:36;primaryKey"`
	Name        string `gorm:"size:120;not null;uniqueIndex"`
	Description string `gorm:"type:text;not null;default:''"`
	Color       string `gorm:"size:16;not null;default:''"`
	CreatedAt   time.Time
}

func (ProductFamily) TableName() string {
	return "product_families"
}

type InstalledProduct struct {
	ID                 string  `gorm:"size:36;primaryKey"`
	JobID              string  `gorm:"size:36;not null;index"`
	SessionID          string  `gorm:"size:36;not null;default:'';index"`
	ItemID             string  `gorm:"size:36;not null;default:''"`
	ProductName        string  `gorm:"size:512;not null"`
	FamilyID           *string `gorm:"size:36"`
	FamilyName         string  `gorm:"size:120;not null;default:''"`
	WidthM             *float64
	HeightM            *float64
	AreaM2             *float64
	ComplexityLevel    int    `gorm:"not null"`
	HeightCategory     string `gorm:"size:16;not null"`
	ScenarioCategory   string `gorm:"size:32;not null"`
	EstimatedTimeMin   *int
	ActualTimeMin      int       `gorm:"not null"`
	ProductivityM2PerH *float64  `gorm:"column:productivity_m2_per_h"`
	InstallersCount    int       `gorm:"not null;default:1"`
	Notes              string    `gorm:"type:text;not null;default:''"`
	CauseNotes         string    `gorm:"type:text;not null;default:''"`
	InstalledAt        time.Time `gorm:"not null;index"`
}

func (InstalledProduct) TableName() string {
	return "installed_products"
}

type ProductivityBenchmark struct {
	ID                    string   `gorm:"size:36;primaryKey"`
	FamilyID              string   `gorm:"size:36;not null;uniqueIndex:ux_benchmark_cell,priority:1"`
	ComplexityLevel       int      `gorm:"not null;uniqueIndex:ux_benchmark_cell,priority:2"`
	HeightCategory        string   `gorm:"size:16;not null;uniqueIndex:ux_benchmark_cell,priority:3"`
	ScenarioCategory      string   `gorm:"size:32;not null;uniqueIndex:ux_benchmark_cell,priority:4"`
	AvgProductivityM2PerH float64  `gorm:"column:avg_productivity_m2_per_h;not null"`
	AvgTimePerM2Min       *float64 `gorm:"column:avg_time_per_m2_min"`
	SampleCount           int      `gorm:"not null"`
	UpdatedAt             time.Time
}

func (ProductivityBenchmark) TableName() string {
	return "productivity_benchmarks"
}
