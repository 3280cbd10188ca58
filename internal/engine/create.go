package engine

import (
	"context"
	"strings"

	"garden/internal/logfields"
	"garden/internal/storage"
)

type CreateTaskInput struct {
	Description string
	Category    Category
	Priority    Priority
}

func normalizeDescription(desc string) (string, error) {
	d := strings.TrimSpace(desc)
	if d == "" {
		return "", ValidationError{Field: "description", Message: "Please enter a task description!"}
	}
	return d, nil
}

func validateInput(in CreateTaskInput) (string, error) {
	desc, err := normalizeDescription(in.Description)
	if err != nil {
		return "", err
	}
	if !in.Category.IsValid() {
		return "", ValidationError{Field: "category", Message: "unknown category " + string(in.Category)}
	}
	if !in.Priority.IsValid() {
		return "", ValidationError{Field: "priority", Message: "unknown priority " + string(in.Priority)}
	}
	return desc, nil
}

// CreateTask appends a new, incomplete task. Invalid input returns a ValidationError
// and changes nothing.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (storage.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc, err := validateInput(in)
	if err != nil {
		ve, _ := err.(ValidationError)
		s.publish(ctx, Event{Kind: EventValidationFailed, Field: ve.Field, Message: ve.Message})
		return storage.Task{}, err
	}

	now := s.now().UTC()
	task := storage.Task{
		ID:        s.nextTaskID(now),
		Text:      desc,
		Category:  string(in.Category),
		Priority:  string(in.Priority),
		Completed: false,
		CreatedAt: now,
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("task created",
		logfields.TaskID(task.ID),
		logfields.Category(task.Category),
		logfields.Priority(task.Priority))

	perr := s.persistFailed(ctx, "create task", s.save(ctx, storage.KeyTasks))
	out := cloneTask(task)
	s.publish(ctx, Event{Kind: EventTaskCreated, Task: &out})
	return cloneTask(task), perr
}
