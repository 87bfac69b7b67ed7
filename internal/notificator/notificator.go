package notificator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/core-coin/walletsync/internal/metrics"
	"github.com/core-coin/walletsync/internal/models"
	"github.com/core-coin/walletsync/pkg/logger"
)

// sendTimeout bounds each channel delivery.
const sendTimeout = 15 * time.Second

// Sender delivers a text message over one channel.
type Sender interface {
	Channel() string
	Send(ctx context.Context, message string) error
}

type Notificator struct {
	logger  *logger.Logger
	senders []Sender
}

var _ models.NotificationService = (*Notificator)(nil)

func NewNotificator(logger *logger.Logger, senders ...Sender) *Notificator {
	return &Notificator{logger: logger, senders: senders}
}

// Enabled reports whether any channel is configured.
func (n *Notificator) Enabled() bool {
	return len(n.senders) > 0
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func() error, channel string) {
	defer func() {
		if r := recover(); r != nil {
			metrics.NotificationsSent.WithLabelValues(channel, "panic").Inc()
			n.logger.Errorw("Notification sender panicked",
				"channel", channel,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	if err := fn(); err != nil {
		metrics.NotificationsSent.WithLabelValues(channel, "error").Inc()
		n.logger.Errorw("Failed to send notification", "channel", channel, "error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues(channel, "ok").Inc()
}

// SendNotification delivers the notification to every channel in turn.
// Failures are logged and never propagated.
func (n *Notificator) SendNotification(notification *models.Notification) {
	message := notification.String()
	for _, sender := range n.senders {
		sender := sender
		n.safeCall(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			defer cancel()
			return sender.Send(ctx, message)
		}, sender.Channel())
	}
}
