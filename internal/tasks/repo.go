package tasks

import (
	"context"
	"errors"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrNotFound      = errors.New("task not found")
)

// Repository is the set of task operations the HTTP layer and forms use.
type Repository interface {
	List() []Task
	Get(id string) (Task, bool)
	Create(ctx context.Context, title, description string, due Due) (Task, error)
	Update(ctx context.Context, id string, p Patch) (Task, error)
	Delete(ctx context.Context, id string) (Task, error)
	ToggleComplete(ctx context.Context, id string) (Task, error)
}

// Patch holds the fields an update changes. Nil fields are left alone;
// DueDate set to the zero Due clears the deadline.
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *Due
}

func (p Patch) apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	return t
}
