package backend

import (
	"context"
	"fmt"
)

// ListCustomers fetches all customers.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.get(ctx, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches one customer.
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	var customer Customer
	if err := c.get(ctx, fmt.Sprintf("/customers/%d", customerID), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer record.
func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (*Customer, error) {
	var created Customer
	if err := c.post(ctx, "/customers", customer, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCustomer patches a customer record.
func (c *Client) UpdateCustomer(ctx context.Context, customerID int64, fields map[string]any) (*Customer, error) {
	var updated Customer
	if err := c.patch(ctx, fmt.Sprintf("/customers/%d", customerID), fields, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// LookupCustomerByPhone finds a customer by phone number.
func (c *Client) LookupCustomerByPhone(ctx context.Context, phone string) (*Customer, error) {
	var customer Customer
	query := map[string]string{"phone": phone}
	if err := c.get(ctx, "/customers/lookup", query, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// VerifyCustomerPIN asks the upstream to verify a customer's PIN. The PIN is
// never checked locally.
func (c *Client) VerifyCustomerPIN(ctx context.Context, customerID int64, pin string) (bool, error) {
	var result struct {
		Valid bool `json:"valid"`
	}
	body := map[string]string{"pin": pin}
	if err := c.post(ctx, fmt.Sprintf("/customers/%d/verify_pin", customerID), body, &result); err != nil {
		return false, err
	}
	return result.Valid, nil
}

// ListCustomerPasses fetches a customer's passes.
func (c *Client) ListCustomerPasses(ctx context.Context, customerID int64) ([]CustomerPass, error) {
	var passes []CustomerPass
	if err := c.get(ctx, fmt.Sprintf("/customers/%d/passes", customerID), nil, &passes); err != nil {
		return nil, err
	}
	return passes, nil
}

// CreateCustomerPass issues a new pass for a customer.
func (c *Client) CreateCustomerPass(ctx context.Context, customerID int64, pass CustomerPass) (*CustomerPass, error) {
	var created CustomerPass
	if err := c.post(ctx, fmt.Sprintf("/customers/%d/passes", customerID), pass, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
