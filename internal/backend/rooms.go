package backend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bathhouse-frontdesk/internal/model"
)

// ListRooms fetches all rooms.
func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.get(ctx, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// PatchRoomStatus requests a status change for a room. The upstream decides
// whether the transition is legal and returns the updated room.
func (c *Client) PatchRoomStatus(ctx context.Context, roomID int64, status model.RoomStatus) (*model.Room, error) {
	var room model.Room
	body := map[string]string{"status": string(status)}
	if err := c.patch(ctx, fmt.Sprintf("/rooms/%d", roomID), body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRoomReadings fetches historical sensor readings for a room, newest
// last. The upstream returns them in arbitrary order; callers merge.
func (c *Client) ListRoomReadings(ctx context.Context, roomID int64, since time.Time, limit int) ([]model.SensorReading, error) {
	query := map[string]string{}
	if !since.IsZero() {
		query["since"] = since.UTC().Format(time.RFC3339)
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	var readings []model.SensorReading
	if err := c.get(ctx, fmt.Sprintf("/rooms/%d/readings", roomID), query, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// LatestRoomReading fetches the most recent sensor snapshot for a room.
func (c *Client) LatestRoomReading(ctx context.Context, roomID int64) (*model.SensorReading, error) {
	var reading model.SensorReading
	if err := c.get(ctx, fmt.Sprintf("/rooms/%d/readings/latest", roomID), nil, &reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// ListAlerts fetches sensor alerts, optionally only undismissed ones.
func (c *Client) ListAlerts(ctx context.Context, undismissedOnly bool) ([]model.SensorAlert, error) {
	query := map[string]string{}
	if undismissedOnly {
		query["dismissed"] = "false"
	}
	var alerts []model.SensorAlert
	if err := c.get(ctx, "/alerts", query, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// DismissAlert marks an alert dismissed and returns the updated record.
func (c *Client) DismissAlert(ctx context.Context, alertID int64) (*model.SensorAlert, error) {
	var alert model.SensorAlert
	if err := c.post(ctx, fmt.Sprintf("/alerts/%d/dismiss", alertID), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
