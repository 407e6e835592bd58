package model

import "time"

type Breakdown struct {
	HomeEnergy     float64 `json:"homeEnergy"`
	Transportation float64 `json:"transportation"`
	Consumption    float64 `json:"consumption"`
}

// FootprintRecord is a single emissions measurement. Records are append-only and
// ordered by ID.
type FootprintRecord struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      string    `gorm:"index;not null" json:"-"`
	Date           time.Time `gorm:"not null" json:"date"`
	TotalEmissions float64   `json:"totalEmissions"`
	Breakdown      Breakdown `gorm:"embedded;embeddedPrefix:breakdown_" json:"breakdown"`
}
