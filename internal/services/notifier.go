package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier dispatches transactional mail off the request path. Delivery is
// best effort: a failed or slow send is logged and never fails the enclosing
// state change.
type Notifier struct {
	mailer  Mailer
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier wraps a mailer with asynchronous, time-bounded dispatch.
func NewNotifier(mailer Mailer, log *zap.Logger, timeout time.Duration) *Notifier {
	return &Notifier{mailer: mailer, log: log, timeout: timeout}
}

// Dispatch queues one send and returns immediately.
func (n *Notifier) Dispatch(to, subject, body string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.mailer.Send(ctx, to, subject, body); err != nil {
			n.log.Warn("mail delivery failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}

// Flush blocks until all in-flight sends finish.
func (n *Notifier) Flush() {
	n.wg.Wait()
}
