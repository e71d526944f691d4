package dispatch

import (
	"context"
	"sync"

	"github.com/guaraci/paylink-gateway/internal/mail"
	"github.com/guaraci/paylink-gateway/internal/model"
)

// Coordinator sends the customer and reviewer notifications for one
// submission. The two sends are independent and run concurrently; both are
// always awaited so a failure on one never drops the other's outcome.
// No retries: retry policy belongs to the transport layer.
type Coordinator struct {
	notifier mail.Notifier
}

func New(notifier mail.Notifier) *Coordinator {
	return &Coordinator{notifier: notifier}
}

// Dispatch sends both payloads and aggregates the per-role result.
func (c *Coordinator) Dispatch(ctx context.Context, customer, reviewer model.NotificationPayload) model.DispatchOutcome {
	failures := make(map[string]model.SendFailure)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for role, p := range map[string]model.NotificationPayload{
		model.RoleCustomer: customer,
		model.RoleReviewer: reviewer,
	} {
		wg.Add(1)
		go func(role string, p model.NotificationPayload) {
			defer wg.Done()
			if err := c.notifier.Send(ctx, p); err != nil {
				mu.Lock()
				failures[role] = model.SendFailure{Recipient: p.Recipient, Err: err}
				mu.Unlock()
			}
		}(role, p)
	}
	wg.Wait()

	return model.DispatchOutcome{
		AllSucceeded: len(failures) == 0,
		Failures:     failures,
	}
}
