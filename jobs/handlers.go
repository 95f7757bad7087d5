package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-hr/meridian/internal/jobs"
	"github.com/meridian-hr/meridian/internal/leave"
	"github.com/meridian-hr/meridian/internal/notifications"
	"github.com/meridian-hr/meridian/internal/payroll"
)

const monthlyAccrualDays = 2

// TaskHandlers owns the worker-side processing of queued tasks.
type TaskHandlers struct {
	logger        *slog.Logger
	metrics       *jobmetrics.Metrics
	payroll       *payroll.Service
	leave         *leave.Service
	notifications *notifications.Service
}

// NewTaskHandlers builds the handler set for the worker. metrics may be nil.
func NewTaskHandlers(logger *slog.Logger, metrics *jobmetrics.Metrics, payrollSvc *payroll.Service, leaveSvc *leave.Service, notificationSvc *notifications.Service) *TaskHandlers {
	return &TaskHandlers{logger: logger, metrics: metrics, payroll: payrollSvc, leave: leaveSvc, notifications: notificationSvc}
}

// Register lists the handlers and cron entries for worker setup.
func (h *TaskHandlers) Register() ([]TaskHandler, []CronRegistration) {
	accrual, err := NewLeaveAccrualTask(LeaveAccrualPayload{Days: monthlyAccrualDays})
	if err != nil {
		// json.Marshal of a fixed struct cannot fail; keep the worker usable.
		accrual = asynq.NewTask(TaskLeaveAccrual, nil)
	}
	handlers := []TaskHandler{
		{Type: TaskPayrollGenerate, Handler: h.HandlePayrollGenerate},
		{Type: TaskNotifyFanout, Handler: h.HandleNotifyFanout},
		{Type: TaskLeaveAccrual, Handler: h.HandleLeaveAccrual},
	}
	cron := []CronRegistration{
		{Spec: "0 2 1 * *", Task: accrual, Options: []asynq.Option{asynq.Queue(QueueDefault)}},
	}
	return handlers, cron
}

// HandlePayrollGenerate produces payslips for the queued run.
func (h *TaskHandlers) HandlePayrollGenerate(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(TaskPayrollGenerate)
	var payload PayrollGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	runID, err := uuid.Parse(payload.RunID)
	if err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	count, err := h.payroll.Generate(ctx, runID)
	if err != nil {
		h.logger.Error("payroll generate", slog.String("run_id", payload.RunID), slog.Any("error", err))
		return tracker.End(err)
	}
	h.logger.Info("payroll generated", slog.String("run_id", payload.RunID), slog.Int("payslips", count))
	return tracker.End(nil)
}

// HandleNotifyFanout writes one notification row per recipient.
func (h *TaskHandlers) HandleNotifyFanout(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(TaskNotifyFanout)
	var payload NotifyFanoutPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	for _, userID := range payload.UserIDs {
		if err := h.notifications.Notify(ctx, userID, payload.Kind, payload.Message); err != nil {
			h.logger.Error("notify fanout", slog.Int64("user_id", userID), slog.Any("error", err))
			return tracker.End(err)
		}
	}
	return tracker.End(nil)
}

// HandleLeaveAccrual credits the monthly allowance.
func (h *TaskHandlers) HandleLeaveAccrual(ctx context.Context, t *asynq.Task) error {
	tracker := h.metrics.Track(TaskLeaveAccrual)
	var payload LeaveAccrualPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}
	days := payload.Days
	if days <= 0 {
		days = monthlyAccrualDays
	}
	touched, err := h.leave.AccrueMonthly(ctx, days)
	if err != nil {
		h.logger.Error("leave accrual", slog.Any("error", err))
		return tracker.End(err)
	}
	h.logger.Info("leave accrued", slog.Int("balances", touched), slog.Int("days", days))
	return tracker.End(nil)
}
