package backend

import "time"

// BookingStatus enumerates upstream booking lifecycle states. The upstream
// owns every transition; the gateway only requests them.
type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingNoShow     BookingStatus = "no_show"
)

// Booking is an upstream booking record. Each room has two physical slots.
type Booking struct {
	ID             int64         `json:"id"`
	CustomerID     int64         `json:"customerId"`
	RoomID         int64         `json:"roomId"`
	PassID         *int64        `json:"passId"`
	Position       int           `json:"position"` // 1 or 2
	Status         BookingStatus `json:"status"`
	ScheduledStart time.Time     `json:"scheduledStart"`
	ScheduledEnd   time.Time     `json:"scheduledEnd"`
	ActualStart    *time.Time    `json:"actualStart"`
	ActualEnd      *time.Time    `json:"actualEnd"`
	PriceCents     int64         `json:"priceCents"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	CustomerID     int64     `json:"customerId"`
	RoomID         int64     `json:"roomId"`
	PassID         *int64    `json:"passId,omitempty"`
	Position       int       `json:"position"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
}

// AvailabilitySlot is one bookable slot returned by the availability query.
type AvailabilitySlot struct {
	RoomID   int64     `json:"roomId"`
	Position int       `json:"position"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Customer is an upstream customer record.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerPass is a prepaid multi-visit pass.
type CustomerPass struct {
	ID            int64      `json:"id"`
	CustomerID    int64      `json:"customerId"`
	Kind          string     `json:"kind"`
	RemainingUses int        `json:"remainingUses"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// Quote is a price quote issued to a prospective customer.
type Quote struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customerId"`
	Body       string    `json:"body"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Contract is a signed rental contract.
type Contract struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customerId"`
	Body       string     `json:"body"`
	SignedAt   *time.Time `json:"signedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// SafetyCheckItem is one item on the pre-session safety checklist.
type SafetyCheckItem struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Position int    `json:"position"`
}

// SafetyCheckRecord records a completed checklist for a booking.
type SafetyCheckRecord struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"bookingId"`
	CheckedItemIDs []int64   `json:"checkedItemIds"`
	CheckedBy      string    `json:"checkedBy"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// KnowledgeArticle is a staff-facing knowledge base entry.
type KnowledgeArticle struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentIntent is the charge authorization handle from the payment
// collaborator, created server-side and confirmed after the hosted widget
// succeeds.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	AmountCents  int64  `json:"amountCents"`
	Status       string `json:"status"`
}
