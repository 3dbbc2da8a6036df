package tasks

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaSource []byte

const schemaURL = "tasks.schema.json"

var collectionSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
		panic(fmt.Sprintf("tasks: add schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// record is the persisted shape of a Task.
type record struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func encodeTasks(tasks []Task) ([]byte, error) {
	recs := make([]record, 0, len(tasks))
	for _, t := range tasks {
		recs = append(recs, record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
			DueDate:     t.DueDate.Ptr(),
		})
	}
	return sonic.ConfigStd.Marshal(recs)
}

// decodeTasks checks data against the collection schema before decoding it.
func decodeTasks(data []byte) ([]Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := collectionSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var recs []record
	if err := sonic.ConfigStd.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := make([]Task, 0, len(recs))
	for _, r := range recs {
		out = append(out, Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Completed:   r.Completed,
			CreatedAt:   r.CreatedAt,
			DueDate:     DueFromPtr(r.DueDate),
		})
	}
	return out, nil
}
