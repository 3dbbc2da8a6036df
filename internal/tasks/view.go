package tasks

import (
	"fmt"
	"slices"
	"strings"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

type SortKey string

const (
	SortCreatedAt SortKey = "createdAt"
	SortDueDate   SortKey = "dueDate"
)

// ViewQuery selects and orders the visible tasks.
type ViewQuery struct {
	Filter StatusFilter
	Search string
	Sort   SortKey
}

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortCreatedAt, nil
	case SortCreatedAt, SortDueDate:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// View filters by status, then by search text, then sorts. It never
// modifies tasks and always returns a new slice.
func View(tasks []Task, q ViewQuery) []Task {
	needle := strings.ToLower(q.Search)

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesStatus(t, q.Filter) {
			continue
		}
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case SortDueDate:
		slices.SortStableFunc(out, func(a, b Task) int {
			return compareDue(a.DueDate, b.DueDate)
		})
	default:
		// newest first
		slices.SortStableFunc(out, func(a, b Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

func matchesStatus(t Task, f StatusFilter) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func matchesSearch(t Task, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(t.Title), lowerNeedle) ||
		strings.Contains(strings.ToLower(t.Description), lowerNeedle)
}

// EmptyMessage is the placeholder text shown when View returns nothing.
func EmptyMessage(q ViewQuery) string {
	if q.Search != "" {
		return "No tasks match your search"
	}
	switch q.Filter {
	case FilterActive:
		return "No active tasks"
	case FilterCompleted:
		return "No completed tasks"
	default:
		return "Your task list is empty"
	}
}
