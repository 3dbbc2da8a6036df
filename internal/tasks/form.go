package tasks

import (
	"context"
	"fmt"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the field errors of a rejected draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Draft is the user-entered content of a task form.
type Draft struct {
	Title       string
	Description string
	DueDate     Due
}

// ValidateDraft trims the draft and reports a missing title.
func ValidateDraft(d Draft) (Draft, []FieldError) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)

	var errs []FieldError
	if d.Title == "" {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: ErrTitleRequired.Error(),
		})
	}
	return d, errs
}

// Form is one add or edit session. A fresh Form starts without errors.
type Form struct {
	editingID string
	draft     Draft
	errs      []FieldError
}

func NewTaskForm() *Form {
	return &Form{}
}

// EditTaskForm opens a form pre-filled with t's current values.
func EditTaskForm(t Task) *Form {
	return &Form{
		editingID: t.ID,
		draft: Draft{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     t.DueDate,
		},
	}
}

// Editing returns the id of the task being edited, if any.
func (f *Form) Editing() (string, bool) { return f.editingID, f.editingID != "" }

func (f *Form) Draft() Draft { return f.draft }

func (f *Form) Errors() []FieldError { return f.errs }

func (f *Form) SetTitle(title string) {
	f.draft.Title = title
	if strings.TrimSpace(title) != "" {
		f.clearError("title")
	}
}

func (f *Form) SetDescription(description string) { f.draft.Description = description }

func (f *Form) SetDueDate(d Due) { f.draft.DueDate = d }

func (f *Form) clearError(field string) {
	kept := f.errs[:0]
	for _, e := range f.errs {
		if e.Field != field {
			kept = append(kept, e)
		}
	}
	f.errs = kept
}

// Submit validates the draft and forwards it to repo. A rejected draft
// returns *ValidationError and repo is not called.
func (f *Form) Submit(ctx context.Context, repo Repository) (Task, error) {
	d, errs := ValidateDraft(f.draft)
	f.errs = errs
	if len(errs) > 0 {
		return Task{}, &ValidationError{Fields: errs}
	}

	if id, ok := f.Editing(); ok {
		return repo.Update(ctx, id, Patch{
			Title:       &d.Title,
			Description: &d.Description,
			DueDate:     &d.DueDate,
		})
	}
	return repo.Create(ctx, d.Title, d.Description, d.DueDate)
}
