package mail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guaraci/paylink-gateway/internal/model"
)

// BreakerNotifier shields the mail transport behind a small circuit breaker:
// after failThreshold consecutive transport failures sends are refused for
// openFor, then a single probe is allowed through. Recipient rejections do
// not count against the transport.
type BreakerNotifier struct {
	inner Notifier
	br    *microBreaker
}

func WithBreaker(inner Notifier, failThreshold int, openFor time.Duration) *BreakerNotifier {
	if failThreshold <= 0 {
		failThreshold = 3
	}
	if openFor <= 0 {
		openFor = 15 * time.Second
	}
	return &BreakerNotifier{inner: inner, br: newMicroBreaker(failThreshold, openFor)}
}

func (n *BreakerNotifier) Send(ctx context.Context, p model.NotificationPayload) error {
	if !n.br.TryAcquire() {
		return fmt.Errorf("%w: circuit open", ErrTransportUnavailable)
	}

	err := n.inner.Send(ctx, p)
	if err == nil || errors.Is(err, ErrRecipientRejected) || errors.Is(err, ErrAttachmentTooLarge) {
		n.br.OnSuccess()
		return err
	}

	n.br.OnFailure()
	return err
}

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

type microBreaker struct {
	mu               sync.Mutex
	st               breakerState
	consecutiveFails int
	failThreshold    int
	openFor          time.Duration
	nextTryAt        time.Time
	probeInFlight    bool
}

func newMicroBreaker(threshold int, openFor time.Duration) *microBreaker {
	return &microBreaker{failThreshold: threshold, openFor: openFor}
}

func (b *microBreaker) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case breakerClosed:
		return true
	case breakerOpen:
		if time.Now().After(b.nextTryAt) && !b.probeInFlight {
			b.st = breakerHalfOpen
			b.probeInFlight = true
			return true
		}
		return false
	case breakerHalfOpen:
		if !b.probeInFlight {
			b.probeInFlight = true
			return true
		}
		return false
	default:
		return true
	}
}

func (b *microBreaker) OnSuccess() {
	b.mu.Lock()
	b.consecutiveFails = 0
	b.st = breakerClosed
	b.probeInFlight = false
	b.mu.Unlock()
}

func (b *microBreaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.st == breakerHalfOpen {
		b.st = breakerOpen
		b.nextTryAt = time.Now().Add(b.openFor)
		b.probeInFlight = false
		return
	}

	b.consecutiveFails++
	if b.consecutiveFails >= b.failThreshold {
		b.st = breakerOpen
		b.nextTryAt = time.Now().Add(b.openFor)
	}
}
