package metrics

// Recorder receives garden observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	IncEvent(kind string)
	IncPlant(category, size string)
	SetGarden(openTasks, completedTasks, plants int)
	SetUnlocked(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncEvent(string)         {}
func (NoopRecorder) IncPlant(string, string) {}
func (NoopRecorder) SetGarden(int, int, int) {}
func (NoopRecorder) SetUnlocked(int)         {}
