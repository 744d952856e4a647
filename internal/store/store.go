package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bathhouse-frontdesk/internal/model"
)

// Store defines the local archive operations. The archive mirrors the
// upstream's rooms, readings and alerts so charts and alert history stay
// servable while the upstream is unreachable.
type Store interface {
	UpsertRooms(ctx context.Context, rooms []model.Room) error
	Rooms(ctx context.Context) ([]model.Room, error)

	InsertReadings(ctx context.Context, readings []model.SensorReading) error
	RoomReadings(ctx context.Context, roomID int64, limit int) ([]model.SensorReading, error)

	UpsertAlerts(ctx context.Context, alerts []model.SensorAlert) ([]int64, error)
	MarkAlertDismissed(ctx context.Context, alertID int64, at time.Time) error
	Alert(ctx context.Context, alertID int64) (*model.SensorAlert, error)

	Subscriptions(ctx context.Context) ([]model.PushSubscription, error)
	SaveSubscription(ctx context.Context, sub model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB

	// alertMu serializes UpsertAlerts: the push and poll paths can observe
	// the same new alert concurrently, and the known-set check must not
	// interleave with another caller's upsert or both report it fresh.
	alertMu sync.Mutex
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// UpsertRooms replaces the mirrored room records with the latest upstream
// snapshot.
func (s *gormStore) UpsertRooms(ctx context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "capacity", "width_cm", "depth_cm", "status",
			"last_used_at", "cooldown_until", "updated_at",
		}),
	}).Create(&rooms).Error
	if err != nil {
		return fmt.Errorf("upsert rooms: %w", err)
	}
	return nil
}

// Rooms returns all mirrored rooms.
func (s *gormStore) Rooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// InsertReadings archives sensor readings. A reading that already exists for
// the same room and timestamp is left untouched, so the push and poll paths
// can both write the same sample without duplicating it.
func (s *gormStore) InsertReadings(ctx context.Context, readings []model.SensorReading) error {
	if len(readings) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "observed_at"}},
		DoNothing: true,
	}).Create(&readings).Error
	if err != nil {
		return fmt.Errorf("insert readings: %w", err)
	}
	return nil
}

// RoomReadings returns the most recent archived readings for a room in
// ascending timestamp order.
func (s *gormStore) RoomReadings(ctx context.Context, roomID int64, limit int) ([]model.SensorReading, error) {
	var readings []model.SensorReading
	q := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("observed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&readings).Error; err != nil {
		return nil, err
	}
	// Reverse into ascending order for the chart.
	for i, j := 0, len(readings)-1; i < j; i, j = i+1, j-1 {
		readings[i], readings[j] = readings[j], readings[i]
	}
	return readings, nil
}

// UpsertAlerts merges an upstream alert batch into the ledger and returns the
// IDs of critical alerts not seen before, for notification dispatch.
func (s *gormStore) UpsertAlerts(ctx context.Context, alerts []model.SensorAlert) ([]int64, error) {
	if len(alerts) == 0 {
		return nil, nil
	}

	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	ids := make([]int64, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	var existing []int64
	if err := s.db.WithContext(ctx).
		Model(&model.SensorAlert{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("fetch known alerts: %w", err)
	}
	known := make(map[int64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"severity", "alert_type", "message", "temperature_tenths",
			"humidity_tenths", "dismissed", "dismissed_at", "updated_at",
		}),
	}).Create(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("upsert alerts: %w", err)
	}

	var fresh []int64
	for _, a := range alerts {
		if !known[a.ID] && a.Severity == model.SeverityCritical && !a.Dismissed {
			fresh = append(fresh, a.ID)
		}
	}
	return fresh, nil
}

// MarkAlertDismissed records a dismissal confirmed by the upstream.
func (s *gormStore) MarkAlertDismissed(ctx context.Context, alertID int64, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&model.SensorAlert{}).
		Where("id = ?", alertID).
		Updates(map[string]any{"dismissed": true, "dismissed_at": at}).Error
	if err != nil {
		return fmt.Errorf("dismiss alert %d: %w", alertID, err)
	}
	return nil
}

// Alert returns one alert from the ledger.
func (s *gormStore) Alert(ctx context.Context, alertID int64) (*model.SensorAlert, error) {
	var alert model.SensorAlert
	if err := s.db.WithContext(ctx).First(&alert, alertID).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// Subscriptions returns all browser push subscriptions.
func (s *gormStore) Subscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// SaveSubscription creates or refreshes a subscription keyed by endpoint.
func (s *gormStore) SaveSubscription(ctx context.Context, sub model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(&sub).Error
}

// DeleteSubscription removes a subscription by endpoint.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}
