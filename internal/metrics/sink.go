package metrics

import (
	"context"

	"garden/internal/engine"
)

// Sink turns garden events into Recorder counter calls. It runs inside the state
// manager's lock, so gauges are refreshed separately with Observe.
type Sink struct {
	Recorder Recorder
}

func (s Sink) Publish(_ context.Context, e engine.Event) {
	rec := s.Recorder
	if rec == nil {
		rec = NoopRecorder{}
	}
	rec.IncEvent(string(e.Kind))
	if e.Kind == engine.EventPlantGrown && e.Plant != nil {
		rec.IncPlant(e.Plant.Category, e.Plant.Size)
	}
}

// Observe sets the gauges from the current state of svc.
func Observe(rec Recorder, svc *engine.Service) {
	open, completed, plants, unlocked := Counts(svc)
	rec.SetGarden(open, completed, plants)
	rec.SetUnlocked(unlocked)
}

// Counts summarizes svc for the gauges.
func Counts(svc *engine.Service) (open, completed, plants, unlocked int) {
	for _, t := range svc.Tasks() {
		if t.Completed {
			completed++
		} else {
			open++
		}
	}
	return open, completed, len(svc.Plants()), len(svc.Unlocked())
}
