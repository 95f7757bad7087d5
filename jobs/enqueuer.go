package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Enqueuer submits jobs to the queue. It satisfies the Enqueuer and
// Notifier interfaces of the payroll and leave services.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer constructs an Enqueuer over an Asynq client.
func NewEnqueuer(redisOpts asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpts)}
}

// EnqueuePayrollGenerate queues payslip generation for a run.
func (e *Enqueuer) EnqueuePayrollGenerate(ctx context.Context, runID string) error {
	task, err := NewPayrollGenerateTask(PayrollGeneratePayload{RunID: runID})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Notify queues an in-app notification for one user.
func (e *Enqueuer) Notify(ctx context.Context, userID int64, kind, message string) error {
	return e.NotifyMany(ctx, []int64{userID}, kind, message)
}

// NotifyMany queues one message for several users at once.
func (e *Enqueuer) NotifyMany(ctx context.Context, userIDs []int64, kind, message string) error {
	task, err := NewNotifyFanoutTask(NotifyFanoutPayload{UserIDs: userIDs, Kind: kind, Message: message})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
