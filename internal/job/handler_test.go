package job

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/fieldsched/internal/entity"
	"github.com/carepath/fieldsched/internal/service"
	"github.com/carepath/fieldsched/internal/store"
)

func testHandler(t *testing.T) (*Handler, store.ScheduleStore) {
	t.Helper()
	cat := entity.NewCatalog("adult-primary-care", []entity.ProviderID{"P1"}, []entity.FacilityID{"F1"})
	_ = cat.AddAssignment("P1", "F1")
	_ = cat.SetCensus("P1", "F1", "2024-12", 10)

	catalogs := store.NewCatalogStore()
	catalogs.Put(cat, nil)
	results := store.NewMemoryScheduleStore()

	return NewHandler(service.NewSolver(zerolog.Nop()), catalogs, results, nil, zerolog.Nop()), results
}

func TestProcessTaskSavesSolvedSchedule(t *testing.T) {
	handler, results := testHandler(t)

	payload := SolvePayload{
		RequestID: "job-1",
		Request: service.SolveRequest{
			BusinessLine: "adult-primary-care", StartMonday: "2024-12-02", SelectedProvider: "P1",
			Weeks: 4, MaxPatientsPerDay: 5, Alpha: 0,
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	task := asynq.NewTask(TypeSolve, data)
	err = handler.ProcessTask(context.Background(), task)
	require.NoError(t, err)

	sched, err := results.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, 10, sched.TotalPatientsServed)
}

func TestProcessTaskRejectedSolveDoesNotSave(t *testing.T) {
	handler, results := testHandler(t)

	payload := SolvePayload{
		RequestID: "job-2",
		Request: service.SolveRequest{
			BusinessLine: "adult-primary-care", StartMonday: "2024-12-02", SelectedProvider: "NOBODY",
		},
	}
	data, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeSolve, data)

	err := handler.ProcessTask(context.Background(), task)
	require.NoError(t, err)

	_, err = results.Get(context.Background(), "job-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProcessTaskUnknownTypeSkipsRetry(t *testing.T) {
	handler, _ := testHandler(t)
	task := asynq.NewTask("unknown:type", []byte(`{}`))

	err := handler.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestProcessTaskUnknownBusinessLineErrors(t *testing.T) {
	handler, _ := testHandler(t)
	payload := SolvePayload{
		RequestID: "job-3",
		Request:   service.SolveRequest{BusinessLine: "nope", StartMonday: "2024-12-02", SelectedProvider: "P1"},
	}
	data, _ := json.Marshal(payload)
	task := asynq.NewTask(TypeSolve, data)

	err := handler.ProcessTask(context.Background(), task)
	assert.Error(t, err)
}
