package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden/internal/engine"
	"garden/internal/storage"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func TestSinkCountsEvents(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)
	ctx := context.Background()

	svc := engine.NewService(storage.NewMemoryStore(), engine.WithRand(firstRand{}), engine.WithSink(Sink{Recorder: rec}))
	require.NoError(t, svc.Load(ctx))

	task, err := svc.CreateTask(ctx, engine.CreateTaskInput{Description: "Write report", Category: engine.CategoryWork, Priority: engine.PriorityHigh})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, engine.CreateTaskInput{Description: "Stretch", Category: engine.CategoryHealth, Priority: engine.PriorityLow})
	require.NoError(t, err)
	_, err = svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, engine.CreateTaskInput{Description: " ", Category: engine.CategoryWork, Priority: engine.PriorityLow})
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.events.WithLabelValues(string(engine.EventTaskCreated))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues(string(engine.EventTaskCompleted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues(string(engine.EventAchievementUnlocked))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.events.WithLabelValues(string(engine.EventValidationFailed))))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.plants.WithLabelValues("work", "large")))

	Observe(rec, svc)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.tasks.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.tasks.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.grown))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.unlocked))
}

func TestHandlerServesExposition(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	rec.IncEvent("garden-reset")
	rec.SetGarden(2, 3, 3)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `garden_events_total{kind="garden-reset"} 1`)
	assert.Contains(t, string(body), `garden_tasks{state="completed"} 3`)
	assert.Contains(t, string(body), "garden_plants 3")
}

func TestNoopRecorderAndNilSink(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncEvent("x")
	r.SetGarden(1, 2, 3)
	Sink{}.Publish(context.Background(), engine.Event{Kind: engine.EventGardenReset})
}
