package notify

import (
	"context"

	"github.com/inkvault/core/internal/pkg/mail"
	"github.com/inkvault/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// Kind identifies a transactional message shape.
type Kind string

const (
	KindPurchaseConfirmation Kind = "purchase_confirmation"
	KindClaimAlert           Kind = "claim_alert"
	KindDailySummary         Kind = "daily_summary"
)

// Sink is the fire-and-forget send capability consumed by the licensing
// services. Implementations must never surface delivery failures to the
// caller.
type Sink interface {
	Send(kind Kind, to string, payload interface{})
}

// Dispatcher hands messages to the task queue and delivers them in the
// background via the mail sender. Failures are recorded on the task and
// logged, never returned.
type Dispatcher struct {
	tasks  *taskqueue.Service
	sender *mail.Sender
	logger *zap.Logger
}

func NewDispatcher(tasks *taskqueue.Service, sender *mail.Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{tasks: tasks, sender: sender, logger: logger.Named("notify")}
}

// Send queues the message and returns immediately.
func (d *Dispatcher) Send(kind Kind, to string, payload interface{}) {
	if to == "" {
		d.logger.Warn("notification dropped: empty recipient", zap.String("kind", string(kind)))
		return
	}

	ctx := context.Background()
	var taskID string
	if d.tasks != nil {
		task, err := d.tasks.Enqueue(ctx, "mail:"+string(kind), payload, "")
		if err != nil {
			d.logger.Warn("enqueue notification failed, delivering without task record",
				zap.String("kind", string(kind)), zap.Error(err))
		} else {
			taskID = task.ID
		}
	}

	go d.deliver(ctx, taskID, kind, to, payload)
}

func (d *Dispatcher) deliver(ctx context.Context, taskID string, kind Kind, to string, payload interface{}) {
	if taskID != "" {
		_ = d.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, "")
	}

	subject, html, err := render(kind, payload)
	if err == nil {
		err = d.sender.Send(mail.Message{
			To:      []string{to},
			Subject: subject,
			HTML:    html,
		})
	}

	if err != nil {
		d.logger.Warn("notification delivery failed",
			zap.String("kind", string(kind)),
			zap.String("to", to),
			zap.Error(err),
		)
		if taskID != "" {
			_ = d.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, err.Error())
		}
		return
	}

	if taskID != "" {
		_ = d.tasks.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, "")
	}
}
