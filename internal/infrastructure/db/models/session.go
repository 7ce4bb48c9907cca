package models

import "time"

type WorkSession struct {
	ID                 string    `gorm:"size:36;primaryKey"`
	JobID              string    `gorm:"size:36;not null;index"`
	ItemID             string    `gorm:"size:36;not null;default:''"`
	InstallerID        string    `gorm:"size:36;not null;index"`
	CheckinAt          time.Time `gorm:"not null;index"`
	CheckoutAt         *time.Time
	CheckinLatitude    *float64
	CheckinLongitude   *float64
	CheckinAccuracy    *float64
	CheckoutLatitude   *float64
	CheckoutLongitude  *float64
	CheckoutAccuracy   *float64
	CheckinPhotoRef    string `gorm:"size:255;not null;default:''"`
	CheckoutPhotoRef   string `gorm:"size:255;not null;default:''"`
	InstalledAreaM2    *float64
	ComplexityLevel    *int
	HeightCategory     *string  `gorm:"size:16"`
	ScenarioCategory   *string  `gorm:"size:32"`
	GrossDurationMin   int      `gorm:"not null;default:0"`
	NetDurationMin     int      `gorm:"not null;default:0"`
	TotalPauseMin      int      `gorm:"not null;default:0"`
	ProductivityM2PerH *float64 `gorm:"column:productivity_m2_per_h"`
	Notes              string   `gorm:"type:text;not null;default:''"`
	CreditedItemIDs    string   `gorm:"column:credited_item_ids;type:text;not null;default:''"`
	Status             string   `gorm:"size:16;not null;index"`
	Version            int      `gorm:"not null;default:0"`
}

func (WorkSession) TableName() string {
	return "item_work_sessions"
}

type PauseLog struct {
	ID          string    `gorm:"size:36;primaryKey"`
	SessionID   string    `gorm:"size:36;not null;index"`
	JobID       string    `gorm:"size:36;not null"`
	ItemID      string    `gorm:"size:36;not null;default:''"`
	InstallerID string    `gorm:"size:36;not null"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     *time.Time
	Reason      string `gorm:"size:32;not null"`
	DurationMin *int
}

func (PauseLog) TableName() string {
	return "pause_logs"
}
