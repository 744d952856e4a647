package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"

	"bathhouse-frontdesk/internal/model"
	"bathhouse-frontdesk/internal/store"
)

// mockSender is a stub implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// mockStore stubs the subset of store.Store the worker pool uses.
type mockStore struct {
	store.Store

	mu       sync.Mutex
	subs     []model.PushSubscription
	alerts   map[int64]*model.SensorAlert
	deleted  []string
	subsErr  error
	alertErr error
}

func (m *mockStore) Subscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs, m.subsErr
}

func (m *mockStore) Alert(ctx context.Context, alertID int64) (*model.SensorAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alertErr != nil {
		return nil, m.alertErr
	}
	return m.alerts[alertID], nil
}

func (m *mockStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, endpoint)
	return nil
}

func (m *mockStore) deletedEndpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, &mockStore{}, &webpush.Options{})

	wp.Dispatch(123)

	select {
	case job := <-wp.jobs:
		assert.Equal(t, int64(123), job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_SendsCriticalAlertNotification(t *testing.T) {
	ms := &mockStore{
		subs: []model.PushSubscription{
			{Endpoint: "https://push.example/a", P256DH: "p", Auth: "a"},
		},
		alerts: map[int64]*model.SensorAlert{
			7: {ID: 7, RoomID: 3, Severity: model.SeverityCritical, Message: "temperature above limit"},
		},
	}
	wp := NewWorkerPool(1, ms, &webpush.Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://push.example/a", sub.Endpoint)
			assert.Equal(t, "Room 3: temperature above limit", string(payload))
			wg.Done()
			return pushResponse(http.StatusCreated), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(7)
	wg.Wait()
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	ms := &mockStore{
		subs: []model.PushSubscription{
			{Endpoint: "https://push.example/expired", P256DH: "p", Auth: "a"},
		},
		alerts: map[int64]*model.SensorAlert{
			8: {ID: 8, RoomID: 1, Severity: model.SeverityCritical, Message: "sensor offline"},
		},
	}
	wp := NewWorkerPool(1, ms, &webpush.Options{})
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return pushResponse(http.StatusGone), nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(8)

	assert.Eventually(t, func() bool {
		deleted := ms.deletedEndpoints()
		return len(deleted) == 1 && deleted[0] == "https://push.example/expired"
	}, time.Second, 10*time.Millisecond)
}

func TestWorkerPool_SendFailureIsNonFatal(t *testing.T) {
	ms := &mockStore{
		subs: []model.PushSubscription{
			{Endpoint: "https://push.example/b", P256DH: "p", Auth: "a"},
		},
		alerts: map[int64]*model.SensorAlert{
			9: {ID: 9, RoomID: 2, Severity: model.SeverityCritical, Message: "overheat"},
		},
	}
	wp := NewWorkerPool(1, ms, &webpush.Options{})

	sent := make(chan struct{}, 2)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			sent <- struct{}{}
			return nil, errors.New("push service unreachable")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	// Two dispatches: the first send fails, the worker must survive to
	// process the second.
	wp.Dispatch(9)
	wp.Dispatch(9)

	for i := 0; i < 2; i++ {
		select {
		case <-sent:
		case <-time.After(time.Second):
			t.Fatalf("worker stopped processing after a send failure (delivery %d)", i+1)
		}
	}
	assert.Empty(t, ms.deletedEndpoints())
}
