package backend

import (
	"context"
	"fmt"
)

// ListBookings fetches bookings for a day (YYYY-MM-DD). An empty day means
// today in the upstream's timezone.
func (c *Client) ListBookings(ctx context.Context, day string) ([]Booking, error) {
	query := map[string]string{}
	if day != "" {
		query["day"] = day
	}
	var bookings []Booking
	if err := c.get(ctx, "/bookings", query, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking creates a booking and returns the upstream record.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	var booking Booking
	if err := c.post(ctx, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CheckInBooking marks a booking in progress.
func (c *Client) CheckInBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	return c.bookingAction(ctx, bookingID, "checkin")
}

// CheckOutBooking completes a booking.
func (c *Client) CheckOutBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	return c.bookingAction(ctx, bookingID, "checkout")
}

// CancelBooking cancels a booking.
func (c *Client) CancelBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	return c.bookingAction(ctx, bookingID, "cancel")
}

func (c *Client) bookingAction(ctx context.Context, bookingID int64, action string) (*Booking, error) {
	var booking Booking
	if err := c.post(ctx, fmt.Sprintf("/bookings/%d/%s", bookingID, action), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// RoomAvailability fetches open slots for a room on a day. Availability is
// computed upstream; the gateway never derives it.
func (c *Client) RoomAvailability(ctx context.Context, roomID int64, day string) ([]AvailabilitySlot, error) {
	query := map[string]string{"day": day}
	var slots []AvailabilitySlot
	if err := c.get(ctx, fmt.Sprintf("/rooms/%d/availability", roomID), query, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
