package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bathhouse-frontdesk/internal/model"
)

func newTestStore(t *testing.T) Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&model.Room{},
		&model.SensorReading{},
		&model.SensorAlert{},
		&model.PushSubscription{},
	))
	return NewGormStore(db)
}

func TestGormStore_UpsertRoomsReflectsStatusChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRooms(ctx, []model.Room{
		{ID: 1, Name: "Cedar", Capacity: 2, Status: model.RoomAvailable},
	}))

	rooms, err := s.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomAvailable, rooms[0].Status)

	require.NoError(t, s.UpsertRooms(ctx, []model.Room{
		{ID: 1, Name: "Cedar", Capacity: 2, Status: model.RoomCooldown},
	}))

	rooms, err = s.Rooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomCooldown, rooms[0].Status)
}

func TestGormStore_InsertReadingsIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	at := time.UnixMilli(1000).UTC()
	first := model.SensorReading{RoomID: 1, ObservedAt: at, TemperatureTenths: 600, HumidityTenths: 400}
	require.NoError(t, s.InsertReadings(ctx, []model.SensorReading{first}))

	// The same sample arrives again over the other path with a different
	// value; the archived one wins.
	dup := model.SensorReading{RoomID: 1, ObservedAt: at, TemperatureTenths: 999, HumidityTenths: 999}
	require.NoError(t, s.InsertReadings(ctx, []model.SensorReading{dup}))

	readings, err := s.RoomReadings(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, 600, readings[0].TemperatureTenths)
}

func TestGormStore_RoomReadingsReturnsNewestAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var batch []model.SensorReading
	for i := int64(1); i <= 10; i++ {
		batch = append(batch, model.SensorReading{
			RoomID:            1,
			ObservedAt:        time.UnixMilli(i * 1000).UTC(),
			TemperatureTenths: int(600 + i),
		})
	}
	require.NoError(t, s.InsertReadings(ctx, batch))

	readings, err := s.RoomReadings(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, time.UnixMilli(8000).UTC(), readings[0].ObservedAt)
	assert.Equal(t, time.UnixMilli(10000).UTC(), readings[2].ObservedAt)
}

func TestGormStore_UpsertAlertsReportsFreshCriticalOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alerts := []model.SensorAlert{
		{ID: 1, RoomID: 1, Severity: model.SeverityCritical, AlertType: "overheat", Message: "too hot", RaisedAt: time.Now().UTC()},
		{ID: 2, RoomID: 1, Severity: model.SeverityInfo, AlertType: "note", Message: "fyi", RaisedAt: time.Now().UTC()},
	}

	fresh, err := s.UpsertAlerts(ctx, alerts)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, fresh, "only the new critical alert is notifiable")

	// Re-observing the same alerts on the next poll must not re-notify.
	fresh, err = s.UpsertAlerts(ctx, alerts)
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestGormStore_UpsertAlertsConcurrentObserversNotifyOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The push handler and the bulk poll can both see the same new critical
	// alert; only one of them may report it notifiable.
	alert := model.SensorAlert{
		ID: 9, RoomID: 1, Severity: model.SeverityCritical,
		AlertType: "overheat", Message: "too hot", RaisedAt: time.Now().UTC(),
	}

	const observers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fresh []int64
	for i := 0; i < observers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := s.UpsertAlerts(ctx, []model.SensorAlert{alert})
			assert.NoError(t, err)
			mu.Lock()
			fresh = append(fresh, ids...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, []int64{9}, fresh, "exactly one observer may dispatch the notification")
}

func TestGormStore_UpsertAlertsSkipsDismissedCritical(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dismissedAt := time.Now().UTC()
	fresh, err := s.UpsertAlerts(ctx, []model.SensorAlert{
		{ID: 3, RoomID: 2, Severity: model.SeverityCritical, AlertType: "overheat", Message: "handled", Dismissed: true, DismissedAt: &dismissedAt, RaisedAt: time.Now().UTC()},
	})
	require.NoError(t, err)
	assert.Empty(t, fresh, "an already-dismissed alert must not notify")
}

func TestGormStore_MarkAlertDismissed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertAlerts(ctx, []model.SensorAlert{
		{ID: 5, RoomID: 1, Severity: model.SeverityWarning, AlertType: "humidity", Message: "humid", RaisedAt: time.Now().UTC()},
	})
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, s.MarkAlertDismissed(ctx, 5, at))

	alert, err := s.Alert(ctx, 5)
	require.NoError(t, err)
	assert.True(t, alert.Dismissed)
	require.NotNil(t, alert.DismissedAt)
}

func TestGormStore_SubscriptionLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := model.PushSubscription{Endpoint: "https://push.example/1", P256DH: "key", Auth: "auth"}
	require.NoError(t, s.SaveSubscription(ctx, sub))

	// Re-registering the same endpoint refreshes the keys.
	sub.P256DH = "rotated"
	require.NoError(t, s.SaveSubscription(ctx, sub))

	subs, err := s.Subscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "rotated", subs[0].P256DH)

	require.NoError(t, s.DeleteSubscription(ctx, sub.Endpoint))
	subs, err = s.Subscriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
