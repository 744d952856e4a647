package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreatePaymentIntent creates a charge authorization with the payment
// collaborator via the upstream. The returned client secret is handed to the
// hosted payment widget in the browser.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64, bookingDraft CreateBookingRequest) (*PaymentIntent, error) {
	body := struct {
		AmountCents int64                `json:"amountCents"`
		Booking     CreateBookingRequest `json:"booking"`
	}{AmountCents: amountCents, Booking: bookingDraft}

	var intent PaymentIntent
	if err := c.post(ctx, "/payment_intents", body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmPaymentIntent finalizes the intent after the widget reports success
// and creates the pending booking upstream. The idempotency key guards
// against a double-submit from the front desk.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, intentID string, pendingBooking CreateBookingRequest) (*Booking, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}

	body := struct {
		Booking CreateBookingRequest `json:"booking"`
	}{Booking: pendingBooking}

	var booking Booking
	path := fmt.Sprintf("/payment_intents/%s/confirm", intentID)
	resp, err := req.
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(body).
		SetResult(&booking).
		Post(path)
	if err := checkResponse(resp, err, "POST", path); err != nil {
		return nil, err
	}
	return &booking, nil
}
