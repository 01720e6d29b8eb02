package calendarexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepath/fieldsched/internal/entity"
)

func TestExportOneEventPerVisitDate(t *testing.T) {
	sched := entity.NewSchedule()
	sched.AddVisit("P1", "2024-12-02", "F1", 3)
	sched.AddVisit("P1", "2024-12-03", "F1", 2)
	sched.AddVisit("P1", "2024-12-03", "F2", 1)

	cal := Export(sched, "P1")

	require.NotNil(t, cal)
	assert.Len(t, cal.Children, 2)
}

func TestExportEmptyScheduleProducesNoEvents(t *testing.T) {
	sched := entity.NewSchedule()

	cal := Export(sched, "P1")

	assert.Empty(t, cal.Children)
}

func TestExportSkipsOtherProviders(t *testing.T) {
	sched := entity.NewSchedule()
	sched.AddVisit("P1", "2024-12-02", "F1", 3)
	sched.AddVisit("P2", "2024-12-02", "F1", 4)

	cal := Export(sched, "P1")

	assert.Len(t, cal.Children, 1)
}
