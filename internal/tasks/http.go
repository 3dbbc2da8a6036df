package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     Due    `json:"due_date"`
}

// optionalDue tells an absent due_date (leave alone) from null (clear).
type optionalDue struct {
	Set bool
	Due Due
}

func (o *optionalDue) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Due.UnmarshalJSON(b)
}

type updateTaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	DueDate     optionalDue `json:"due_date"`
}

type errResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type ack struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type taskView struct {
	Task
	Overdue bool   `json:"overdue"`
	DueIn   string `json:"due_in,omitempty"`
}

type mutationResponse struct {
	Task taskView `json:"task"`
	Ack  ack      `json:"ack"`
}

type listResponse struct {
	Tasks        []taskView `json:"tasks"`
	Count        int        `json:"count"`
	EmptyMessage string     `json:"empty_message,omitempty"`
}

type handler struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func RegisterRoutes(r chi.Router, repo Repository, logger *slog.Logger) {
	h := &handler{repo: repo, logger: logger, now: time.Now}

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.listTasks)
		r.Post("/", h.createTask)
		r.Get("/{id}", h.getTask)
		r.Patch("/{id}", h.updateTask)
		r.Delete("/{id}", h.deleteTask)
		r.Post("/{id}/toggle", h.toggleTask)
	})
}

func (h *handler) view(t Task) taskView {
	now := h.now()
	v := taskView{Task: t, Overdue: t.Overdue(now)}
	if due, ok := t.DueDate.Time(); ok {
		v.DueIn = humanize.RelTime(due, now, "ago", "from now")
	}
	return v
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	filter, err := ParseStatusFilter(qs.Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_filter"})
		return
	}
	sortKey, err := ParseSortKey(qs.Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_sort"})
		return
	}
	q := ViewQuery{Filter: filter, Search: qs.Get("search"), Sort: sortKey}

	visible := View(h.repo.List(), q)
	resp := listResponse{Tasks: make([]taskView, 0, len(visible)), Count: len(visible)}
	for _, t := range visible {
		resp.Tasks = append(resp.Tasks, h.view(t))
	}
	if len(visible) == 0 {
		resp.EmptyMessage = EmptyMessage(q)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	t, ok := h.repo.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, h.view(t))
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
		return
	}

	form := NewTaskForm()
	form.SetTitle(req.Title)
	form.SetDescription(req.Description)
	form.SetDueDate(req.DueDate)

	t, err := form.Submit(r.Context(), h.repo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Task: h.view(t),
		Ack: ack{
			Title:       "Task Added",
			Description: fmt.Sprintf("%q has been added to your list", t.Title),
		},
	})
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid_json"})
		return
	}

	current, ok := h.repo.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "not_found"})
		return
	}

	form := EditTaskForm(current)
	if req.Title != nil {
		form.SetTitle(*req.Title)
	}
	if req.Description != nil {
		form.SetDescription(*req.Description)
	}
	if req.DueDate.Set {
		form.SetDueDate(req.DueDate.Due)
	}

	t, err := form.Submit(r.Context(), h.repo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Task: h.view(t),
		Ack: ack{
			Title:       "Task Updated",
			Description: fmt.Sprintf("%q has been updated", t.Title),
		},
	})
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Task: h.view(t),
		Ack: ack{
			Title:       "Task Deleted",
			Description: fmt.Sprintf("%q has been removed", t.Title),
		},
	})
}

func (h *handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.ToggleComplete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	title := "Task Marked Incomplete"
	if t.Completed {
		title = "Task Completed"
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Task: h.view(t),
		Ack: ack{
			Title:       title,
			Description: fmt.Sprintf("%q has been updated", t.Title),
		},
	})
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error:   "validation_error",
			Details: vErr.Fields,
		})
	case errors.Is(err, ErrTitleRequired):
		writeJSON(w, http.StatusUnprocessableEntity, errResponse{
			Error: "validation_error",
			Details: []FieldError{
				{Field: "title", Message: "title is required"},
			},
		})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errResponse{Error: "not_found"})
	default:
		h.logger.Error("task_request_failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errResponse{Error: "unexpected_error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
