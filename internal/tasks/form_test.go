package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s1natex/taskboard/internal/kv"
)

// recordingRepo fails the test if a rejected form reaches the store.
type recordingRepo struct {
	*Store
	calls int
}

func (r *recordingRepo) Create(ctx context.Context, title, description string, due Due) (Task, error) {
	r.calls++
	return r.Store.Create(ctx, title, description, due)
}

func (r *recordingRepo) Update(ctx context.Context, id string, p Patch) (Task, error) {
	r.calls++
	return r.Store.Update(ctx, id, p)
}

func TestValidateDraft(t *testing.T) {
	d, errs := ValidateDraft(Draft{Title: "  Buy milk ", Description: " semi-skimmed \n"})
	assert.Empty(t, errs)
	assert.Equal(t, "Buy milk", d.Title)
	assert.Equal(t, "semi-skimmed", d.Description)

	_, errs = ValidateDraft(Draft{Title: " \t ", Description: "anything"})
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Field: "title", Message: "title is required"}, errs[0])
}

func TestForm_RejectedDraftNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{Store: Open(ctx, kv.NewMemorySlot())}

	f := NewTaskForm()
	f.SetTitle("   ")
	_, err := f.Submit(ctx, repo)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 1)
	assert.Len(t, f.Errors(), 1)
	assert.Zero(t, repo.calls)
	assert.Empty(t, repo.List())
}

func TestForm_SetTitleClearsError(t *testing.T) {
	ctx := context.Background()
	repo := Open(ctx, kv.NewMemorySlot())

	f := NewTaskForm()
	_, err := f.Submit(ctx, repo)
	require.Error(t, err)
	require.NotEmpty(t, f.Errors())

	f.SetTitle(" ")
	assert.NotEmpty(t, f.Errors())
	f.SetTitle("ok")
	assert.Empty(t, f.Errors())
}

func TestForm_CreateTrimsFields(t *testing.T) {
	ctx := context.Background()
	repo := Open(ctx, kv.NewMemorySlot())
	due := DueAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	f := NewTaskForm()
	f.SetTitle("  Walk dog  ")
	f.SetDescription("  around the park ")
	f.SetDueDate(due)

	task, err := f.Submit(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "Walk dog", task.Title)
	assert.Equal(t, "around the park", task.Description)
	assert.True(t, task.DueDate.Equal(due))
	assert.Empty(t, f.Errors())
}

func TestEditTaskForm_PrefillsAndUpdates(t *testing.T) {
	ctx := context.Background()
	repo := Open(ctx, kv.NewMemorySlot())
	orig, err := repo.Create(ctx, "Read book", "chapter 3", DueAt(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	f := EditTaskForm(orig)
	id, editing := f.Editing()
	assert.True(t, editing)
	assert.Equal(t, orig.ID, id)
	assert.Equal(t, Draft{Title: orig.Title, Description: orig.Description, DueDate: orig.DueDate}, f.Draft())
	assert.Empty(t, f.Errors())

	f.SetTitle("Read book twice ")
	f.SetDueDate(Due{})
	updated, err := f.Submit(ctx, repo)
	require.NoError(t, err)

	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "Read book twice", updated.Title)
	assert.Equal(t, "chapter 3", updated.Description)
	assert.True(t, updated.DueDate.IsZero())
	assert.Len(t, repo.List(), 1)
}

func TestForm_ReopenStartsClean(t *testing.T) {
	ctx := context.Background()
	repo := Open(ctx, kv.NewMemorySlot())

	first := NewTaskForm()
	_, err := first.Submit(ctx, repo)
	require.Error(t, err)

	second := NewTaskForm()
	assert.Empty(t, second.Errors())
	assert.Equal(t, Draft{}, second.Draft())
	_, editing := second.Editing()
	assert.False(t, editing)
}
