// Package notify is the sink budget-status messages are pushed to.
// Delivery is fire-and-forget: the evaluator never blocks on the sink
// and never fails because a message could not be delivered.
package notify

import (
	"context"
	"log/slog"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// Notifier accepts a human-readable budget-status message for display.
type Notifier interface {
	Notify(ctx context.Context, ev core.Evaluation, categoryID int64, month, year int)
}

// LogNotifier writes status messages to the structured log. It is the
// default sink and always works offline.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev core.Evaluation, categoryID int64, month, year int) {
	slog.InfoContext(ctx, ev.Message,
		"status", ev.Status,
		"category_id", categoryID,
		"month", month,
		"year", year,
		"spent_cents", ev.Spent.Cents,
		"limit_cents", ev.Limit.Cents)
}

// QueueNotifier publishes status messages to the broker's alerts
// queue. Publish failures are logged and swallowed; the evaluation
// already happened and must not fail because the broker is down.
type QueueNotifier struct {
	client *amqp.Client
}

func NewQueueNotifier(client *amqp.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) Notify(ctx context.Context, ev core.Evaluation, categoryID int64, month, year int) {
	alert := &amqp.BudgetAlert{
		Message:    ev.Message,
		Status:     string(ev.Status),
		CategoryID: categoryID,
		Month:      month,
		Year:       year,
	}
	if err := n.client.PublishBudgetAlert(ctx, alert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget alert",
			"error", err,
			"status", ev.Status,
			"category_id", categoryID)
	}
}

// Multi fans one message out to several sinks.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev core.Evaluation, categoryID int64, month, year int) {
	for _, n := range m {
		n.Notify(ctx, ev, categoryID, month, year)
	}
}
