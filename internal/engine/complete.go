package engine

import (
	"context"

	"garden/internal/logfields"
	"garden/internal/storage"
)

type CompleteResult struct {
	TaskID int64
	// Completed is false when the call was a no-op: unknown id or already done.
	Completed bool
	Task      storage.Task
	Plant     *storage.Plant
	// Unlocked is the achievement this completion unlocked, if any.
	Unlocked *Achievement
	Stats    storage.Stats
}

// CompleteTask marks a task done, grows its plant and evaluates achievements.
// Completing an unknown or already completed task does nothing.
func (s *Service) CompleteTask(ctx context.Context, id int64) (*CompleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.tasks[i].Completed {
		return &CompleteResult{TaskID: id, Stats: s.stats}, nil
	}

	now := s.now().UTC()
	task := &s.tasks[i]
	task.Completed = true
	completedAt := now
	task.CompletedAt = &completedAt
	s.stats.CompletedTasks++

	plant := growPlant(s.rng, *task, now)
	s.plants = append(s.plants, plant)
	s.stats.PlantsGrown++

	s.logger.Debug("task completed",
		logfields.TaskID(task.ID),
		logfields.PlantID(plant.ID),
		logfields.Category(plant.Category))

	unlocked := s.unlockNext()
	keys := []string{storage.KeyTasks, storage.KeyPlants, storage.KeyStats}
	if unlocked != nil {
		keys = append(keys, storage.KeyAchievements)
	}
	saveErr := s.saveState(ctx, keys...)

	done := cloneTask(*task)
	s.publish(ctx, Event{Kind: EventTaskCompleted, Task: &done})
	grown := plant
	s.publish(ctx, Event{Kind: EventPlantGrown, Task: &done, Plant: &grown})
	if unlocked != nil {
		ev := *unlocked
		s.publish(ctx, Event{Kind: EventAchievementUnlocked, Achievement: &ev})
	}

	res := &CompleteResult{
		TaskID:    id,
		Completed: true,
		Task:      cloneTask(*task),
		Plant:     &plant,
		Unlocked:  unlocked,
		Stats:     s.stats,
	}
	return res, s.persistFailed(ctx, "complete task", saveErr)
}

// unlockNext unlocks at most one achievement: the first qualifying one in
// catalog order.
func (s *Service) unlockNext() *Achievement {
	a, ok := NextAchievement(s.stats.CompletedTasks, s.unlocked)
	if !ok {
		return nil
	}
	s.unlocked = append(s.unlocked, a.ID)
	s.logger.Debug("achievement unlocked", logfields.Achievement(a.ID))
	return &a
}
