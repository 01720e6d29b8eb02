// Package job enqueues and processes asynchronous solve requests via
// Asynq, grounded on the teacher's JobScheduler/EnqueueX pattern.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/google/uuid"

	"github.com/carepath/fieldsched/internal/service"
)

// TypeSolve is the Asynq task type for a single-provider solve.
const TypeSolve = "schedule:solve"

// SolvePayload is the task payload enqueued for an asynchronous solve.
type SolvePayload struct {
	RequestID   string                `json:"request_id"`
	Request     service.SolveRequest  `json:"request"`
}

// Scheduler enqueues solve jobs onto a Redis-backed Asynq queue.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler connects to Redis at redisAddr and returns a ready
// Scheduler.
func NewScheduler(redisAddr string) (*Scheduler, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	if err := client.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Scheduler{client: client}, nil
}

// Close releases the underlying Redis connection.
func (s *Scheduler) Close() error { return s.client.Close() }

// EnqueueSolve enqueues a solve request, returning the generated
// request id used to correlate the eventual result.
func (s *Scheduler) EnqueueSolve(ctx context.Context, req service.SolveRequest) (string, *asynq.TaskInfo, error) {
	requestID := uuid.NewString()
	payload := SolvePayload{RequestID: requestID, Request: req}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshalling solve payload: %w", err)
	}

	task := asynq.NewTask(TypeSolve, data)
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(1), asynq.Timeout(2*time.Minute))
	if err != nil {
		return "", nil, fmt.Errorf("enqueueing solve job: %w", err)
	}
	return requestID, info, nil
}
