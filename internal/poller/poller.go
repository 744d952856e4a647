// Package poller refreshes the cached upstream views on fixed intervals.
// Polling is the convergence path: it keeps the gateway's views correct even
// when the push channel is down. A failed cycle leaves the previous cached
// values in place and is retried on the next tick; polling never backs off.
package poller

import (
	"context"
	"log"
	"time"

	"bathhouse-frontdesk/config"
	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/model"
	"bathhouse-frontdesk/internal/notification"
	"bathhouse-frontdesk/internal/store"
	"bathhouse-frontdesk/internal/telemetry"
)

// Service orchestrates the polling fetchers.
type Service struct {
	cfg        *config.Config
	client     *backend.Client
	store      store.Store
	cache      *cache.Service
	hub        *telemetry.Hub
	workerPool *notification.WorkerPool
}

// NewService creates the polling service.
func NewService(cfg *config.Config, client *backend.Client, s store.Store, c *cache.Service, hub *telemetry.Hub, wp *notification.WorkerPool) *Service {
	return &Service{
		cfg:        cfg,
		client:     client,
		store:      s,
		cache:      c,
		hub:        hub,
		workerPool: wp,
	}
}

// Run starts the bulk and snapshot loops and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Poll.Enabled {
		log.Println("Polling is disabled. Not starting.")
		return
	}
	log.Println("Starting polling service...")

	go s.loop(ctx, s.cfg.Poll.SnapInterval, s.SnapshotOnce)
	s.loop(ctx, s.cfg.Poll.BulkInterval, s.BulkOnce)
}

func (s *Service) loop(ctx context.Context, interval time.Duration, cycle func(context.Context)) {
	cycle(ctx)

	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			cycle(ctx)
			timer.Reset(interval)
		}
	}
}

// BulkOnce refreshes rooms, undismissed alerts and per-room reading history.
func (s *Service) BulkOnce(ctx context.Context) {
	rooms, err := s.client.ListRooms(ctx)
	if err != nil {
		log.Printf("poll: rooms fetch failed, keeping cached view: %v", err)
	} else {
		s.cache.Set(cache.KeyRooms, rooms)
		if err := s.store.UpsertRooms(ctx, rooms); err != nil {
			log.Printf("poll: room mirror update failed: %v", err)
		}
	}

	alerts, err := s.client.ListAlerts(ctx, true)
	if err != nil {
		log.Printf("poll: alerts fetch failed, keeping cached view: %v", err)
	} else {
		s.cache.Set(cache.KeyAlerts, alerts)
		freshCritical, err := s.store.UpsertAlerts(ctx, alerts)
		if err != nil {
			log.Printf("poll: alert ledger update failed: %v", err)
		}
		for _, id := range freshCritical {
			s.workerPool.Dispatch(id)
		}
	}

	for _, room := range rooms {
		readings, err := s.client.ListRoomReadings(ctx, room.ID, time.Time{}, s.hub.Window())
		if err != nil {
			log.Printf("poll: readings fetch for room %d failed: %v", room.ID, err)
			continue
		}
		if err := s.store.InsertReadings(ctx, readings); err != nil {
			log.Printf("poll: reading archive for room %d failed: %v", room.ID, err)
			continue
		}
		// The archived series changed; the next chart read must rebuild it.
		s.cache.Invalidate(cache.ReadingsKey(room.ID))
	}
}

// SnapshotOnce refreshes the latest sensor snapshot for every known room.
func (s *Service) SnapshotOnce(ctx context.Context) {
	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		log.Printf("poll: room list for snapshots unavailable: %v", err)
		return
	}

	for _, room := range rooms {
		reading, err := s.client.LatestRoomReading(ctx, room.ID)
		if err != nil {
			log.Printf("poll: snapshot for room %d failed: %v", room.ID, err)
			continue
		}
		if err := s.store.InsertReadings(ctx, []model.SensorReading{*reading}); err != nil {
			log.Printf("poll: snapshot archive for room %d failed: %v", room.ID, err)
			continue
		}
		s.cache.Invalidate(cache.ReadingsKey(room.ID))
	}
}
