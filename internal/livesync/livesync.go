// Package livesync binds the push channels to the gateway's state: live
// sensor readings feed the telemetry hub and the archive, live alerts feed
// the ledger and the notification pool, and lifecycle updates invalidate the
// cached room view so the next read refetches.
package livesync

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/model"
	"bathhouse-frontdesk/internal/notification"
	"bathhouse-frontdesk/internal/push"
	"bathhouse-frontdesk/internal/store"
	"bathhouse-frontdesk/internal/telemetry"
)

// sensorPayload is the wire shape of a live sensor reading.
type sensorPayload struct {
	RoomID            int64      `json:"roomId"`
	ObservedAt        *time.Time `json:"observedAt"`
	TemperatureTenths int        `json:"temperatureTenths"`
	HumidityTenths    int        `json:"humidityTenths"`
}

// Service routes push messages into the hub, archive, cache and worker pool.
type Service struct {
	ctx        context.Context
	store      store.Store
	cache      *cache.Service
	hub        *telemetry.Hub
	workerPool *notification.WorkerPool
}

// NewService creates the live-sync router. ctx bounds the archive writes
// issued from push handlers.
func NewService(ctx context.Context, s store.Store, c *cache.Service, hub *telemetry.Hub, wp *notification.WorkerPool) *Service {
	return &Service{
		ctx:        ctx,
		store:      s,
		cache:      c,
		hub:        hub,
		workerPool: wp,
	}
}

// Bind registers handlers on the sensor and alert channels.
func (s *Service) Bind(sensorCh, alertCh *push.Channel) {
	sensorCh.Subscribe(push.KindSensorReading, s.handleSensorReading)
	sensorCh.Subscribe(push.KindLifecycleUpdate, s.handleLifecycleUpdate)
	sensorCh.Subscribe(push.KindConnected, func(json.RawMessage, *time.Time) {
		log.Println("livesync: sensor stream connected")
	})

	alertCh.Subscribe(push.KindAlert, s.handleAlert)
	alertCh.Subscribe(push.KindConnected, func(json.RawMessage, *time.Time) {
		log.Println("livesync: alert stream connected")
	})
}

func (s *Service) handleSensorReading(data json.RawMessage, ts *time.Time) {
	var payload sensorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("livesync: dropping unreadable sensor payload: %v", err)
		return
	}

	observedAt := payload.ObservedAt
	if observedAt == nil {
		observedAt = ts
	}
	if observedAt == nil || payload.RoomID == 0 {
		log.Printf("livesync: dropping sensor payload without room or timestamp")
		return
	}

	s.hub.Append(payload.RoomID, telemetry.Point{
		Timestamp:         *observedAt,
		TemperatureTenths: payload.TemperatureTenths,
		HumidityTenths:    payload.HumidityTenths,
	})

	reading := model.SensorReading{
		RoomID:            payload.RoomID,
		ObservedAt:        *observedAt,
		TemperatureTenths: payload.TemperatureTenths,
		HumidityTenths:    payload.HumidityTenths,
	}
	if err := s.store.InsertReadings(s.ctx, []model.SensorReading{reading}); err != nil {
		log.Printf("livesync: reading archive failed: %v", err)
	}
}

func (s *Service) handleAlert(data json.RawMessage, _ *time.Time) {
	var alert model.SensorAlert
	if err := json.Unmarshal(data, &alert); err != nil {
		log.Printf("livesync: dropping unreadable alert payload: %v", err)
		return
	}
	if alert.ID == 0 {
		log.Printf("livesync: dropping alert payload without id")
		return
	}

	freshCritical, err := s.store.UpsertAlerts(s.ctx, []model.SensorAlert{alert})
	if err != nil {
		log.Printf("livesync: alert ledger update failed: %v", err)
	}
	s.cache.Invalidate(cache.KeyAlerts)
	for _, id := range freshCritical {
		s.workerPool.Dispatch(id)
	}
}

func (s *Service) handleLifecycleUpdate(data json.RawMessage, _ *time.Time) {
	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		log.Printf("livesync: dropping unreadable lifecycle payload: %v", err)
		return
	}
	if room.ID == 0 {
		log.Printf("livesync: dropping lifecycle payload without room id")
		return
	}

	if err := s.store.UpsertRooms(s.ctx, []model.Room{room}); err != nil {
		log.Printf("livesync: room mirror update failed: %v", err)
	}
	s.cache.Invalidate(cache.KeyRooms)
}
