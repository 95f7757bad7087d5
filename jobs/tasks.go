package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskPayrollGenerate produces payslips for a pending payroll run.
	TaskPayrollGenerate = "payroll:generate"
	// TaskNotifyFanout delivers an in-app notification to a set of users.
	TaskNotifyFanout = "notify:fanout"
	// TaskLeaveAccrual credits monthly leave allowance to active users.
	TaskLeaveAccrual = "leave:accrue"
)

// PayrollGeneratePayload identifies the run to process.
type PayrollGeneratePayload struct {
	RunID string `json:"runId"`
}

// NewPayrollGenerateTask constructs the payroll generation task.
func NewPayrollGenerateTask(payload PayrollGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPayrollGenerate, data, asynq.MaxRetry(3)), nil
}

// NotifyFanoutPayload carries one message for one or more recipients.
type NotifyFanoutPayload struct {
	UserIDs []int64 `json:"userIds"`
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
}

// NewNotifyFanoutTask constructs the notification fan-out task.
func NewNotifyFanoutTask(payload NotifyFanoutPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyFanout, data), nil
}

// LeaveAccrualPayload sets how many days each active user receives.
type LeaveAccrualPayload struct {
	Days int `json:"days"`
}

// NewLeaveAccrualTask constructs the monthly accrual task.
func NewLeaveAccrualTask(payload LeaveAccrualPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeaveAccrual, data), nil
}
