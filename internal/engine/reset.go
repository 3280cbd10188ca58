package engine

import (
	"context"

	"garden/internal/storage"
)

// ResetGarden clears tasks, plants, stats and unlocked achievements.
func (s *Service) ResetGarden(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []storage.Task{}
	s.plants = []storage.Plant{}
	s.stats = storage.Stats{}
	s.unlocked = []string{}
	s.logger.Debug("garden reset")

	err := s.saveState(ctx, storage.AllKeys...)

	perr := s.persistFailed(ctx, "reset garden", err)
	s.publish(ctx, Event{Kind: EventGardenReset})
	return perr
}
