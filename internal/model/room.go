package model

import "time"

// RoomStatus enumerates the operational states of an enzyme bath room.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCooldown    RoomStatus = "cooldown"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room is the local mirror of an upstream room record. The upstream owns
// status transitions; the gateway only reflects them.
type Room struct {
	ID             int64      `gorm:"primaryKey" json:"id"` // Upstream ID
	Name           string     `gorm:"size:128;not null" json:"name"`
	Capacity       int        `json:"capacity"`
	WidthCM        int        `json:"widthCm"`
	DepthCM        int        `json:"depthCm"`
	Status         RoomStatus `gorm:"size:32;not null" json:"status"`
	LastUsedAt     *time.Time `json:"lastUsedAt"`
	CooldownUntil  *time.Time `json:"cooldownUntil"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}
