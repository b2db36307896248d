package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prepare trims the text fields and stamps both timestamps with now.
func (t *Todo) Prepare(now time.Time) {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = trimOptional(t.Description)
	t.CreatedAt = now.UTC()
	t.UpdatedAt = t.CreatedAt
}

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Completed   bool    `json:"completed"`
}

func (r CreateTodoRequest) Todo() *Todo {
	return &Todo{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// TodoUpdate is a partial update: nil fields are left unchanged. Description
// is nullable, so DescriptionSet records whether the body carried the key;
// an explicit null clears it.
type TodoUpdate struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`

	DescriptionSet bool `json:"-"`
}

func (u *TodoUpdate) UnmarshalJSON(data []byte) error {
	type plain TodoUpdate
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if err := json.Unmarshal(data, (*plain)(u)); err != nil {
		return err
	}
	_, u.DescriptionSet = keys["description"]
	return nil
}

// WritesDescription reports whether the description column must be written.
func (u TodoUpdate) WritesDescription() bool {
	return u.DescriptionSet || u.Description != nil
}

func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && !u.WritesDescription() && u.Completed == nil
}

// Normalize trims the patch the way Prepare trims a new todo: a blank
// description becomes null.
func (u *TodoUpdate) Normalize() {
	u.Title = trimPtr(u.Title)
	if u.WritesDescription() {
		u.Description = trimOptional(u.Description)
		u.DescriptionSet = true
	}
}
