package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	DueDate     Due       `json:"due_date,omitzero"`
}

// Overdue reports whether t has a deadline before now and is still open.
func (t Task) Overdue(now time.Time) bool {
	due, ok := t.DueDate.Time()
	return ok && !t.Completed && now.After(due)
}

// Due is an optional deadline. The zero value means no deadline.
type Due struct {
	at  time.Time
	set bool
}

func DueAt(t time.Time) Due { return Due{at: t, set: true} }

// Time returns the deadline and whether one is set.
func (d Due) Time() (time.Time, bool) { return d.at, d.set }

func (d Due) IsZero() bool { return !d.set }

// Equal compares two deadlines; unset deadlines are equal to each other.
func (d Due) Equal(o Due) bool {
	if d.set != o.set {
		return false
	}
	return !d.set || d.at.Equal(o.at)
}

// Ptr returns the deadline as a nullable time.
func (d Due) Ptr() *time.Time {
	if !d.set {
		return nil
	}
	t := d.at
	return &t
}

func DueFromPtr(t *time.Time) Due {
	if t == nil {
		return Due{}
	}
	return DueAt(*t)
}

// compareDue orders set deadlines ascending and unset ones last.
func compareDue(a, b Due) int {
	switch {
	case !a.set && !b.set:
		return 0
	case !a.set:
		return 1
	case !b.set:
		return -1
	}
	return a.at.Compare(b.at)
}

func (d Due) MarshalJSON() ([]byte, error) {
	if !d.set {
		return []byte("null"), nil
	}
	return json.Marshal(d.at)
}

// UnmarshalJSON accepts null, an RFC 3339 timestamp or a YYYY-MM-DD date
// (midnight UTC).
func (d *Due) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Due{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("due date must be a string or null")
	}
	t, err := ParseDue(s)
	if err != nil {
		return err
	}
	*d = t
	return nil
}

func ParseDue(s string) (Due, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Due{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DueAt(t), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DueAt(t), nil
	}
	return Due{}, fmt.Errorf("invalid due date %q: want RFC 3339 or YYYY-MM-DD", s)
}
