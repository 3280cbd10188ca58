package engine

import (
	"context"

	"garden/internal/logfields"
	"garden/internal/storage"
)

// DeleteTask removes a task and reports whether it existed. Plants already grown
// from it and the stats counters are left alone.
func (s *Service) DeleteTask(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", logfields.TaskID(id))

	perr := s.persistFailed(ctx, "delete task", s.save(ctx, storage.KeyTasks))
	s.publish(ctx, Event{Kind: EventTaskDeleted, Task: &removed})
	return true, perr
}
