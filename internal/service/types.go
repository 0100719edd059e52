package service

// Category is a named grouping for tasks.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Task represents a single to-do item.
type Task struct {
	ID           int64     `json:"id"`
	Description  string    `json:"description"`
	Category     *int64    `json:"category"`
	CategoryName *string   `json:"category_name"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    Timestamp `json:"created_at"`
}

// NewTask is the payload for task creation.
// Category is sent as null when unset; the backend rejects it.
type NewTask struct {
	Description string `json:"description"`
	Category    *int64 `json:"category"`
}

// TaskPatch is a partial task update. Nil fields are not sent.
type TaskPatch struct {
	Description *string `json:"description,omitempty"`
	Category    *int64  `json:"category,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
