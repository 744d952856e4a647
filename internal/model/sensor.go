package model

import "time"

// SensorReading is one temperature/humidity sample for a room. Values are
// fixed-point tenths (385 = 38.5°C). Immutable once created.
type SensorReading struct {
	ID                int64     `gorm:"autoIncrement" json:"-"`
	RoomID            int64     `gorm:"not null;index:idx_reading_room_ts,unique,priority:1" json:"roomId"`
	ObservedAt        time.Time `gorm:"not null;index:idx_reading_room_ts,unique,priority:2" json:"observedAt"`
	TemperatureTenths int       `gorm:"not null" json:"temperatureTenths"`
	HumidityTenths    int       `gorm:"not null" json:"humidityTenths"`
}

// AlertSeverity enumerates sensor alert severities.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// SensorAlert is an upstream-raised alert for a room. Created by the backend,
// dismissed by front-desk action.
type SensorAlert struct {
	ID                int64         `gorm:"primaryKey" json:"id"` // Upstream ID
	RoomID            int64         `gorm:"not null;index" json:"roomId"`
	Severity          AlertSeverity `gorm:"size:16;not null" json:"severity"`
	AlertType         string        `gorm:"size:64;not null" json:"alertType"`
	Message           string        `gorm:"size:512;not null" json:"message"`
	TemperatureTenths *int          `json:"temperatureTenths"`
	HumidityTenths    *int          `json:"humidityTenths"`
	Dismissed         bool          `gorm:"not null" json:"dismissed"`
	DismissedAt       *time.Time    `json:"dismissedAt"`
	RaisedAt          time.Time     `gorm:"not null" json:"raisedAt"`
	CreatedAt         time.Time     `json:"-"`
	UpdatedAt         time.Time     `json:"-"`
}
