package state

import "todocat/internal/service"

// collection tracks fetch generations for one resource list, plus the
// mutations that completed while the latest fetch was in flight.
type collection struct {
	issued  uint64
	pending []mutation
}

// issue starts a new generation. Mutations recorded for an older fetch are
// dropped: the new request is sent after they were applied on the server.
func (c *collection) issue() uint64 {
	c.issued++
	c.pending = nil
	return c.issued
}

func (c *collection) latest(gen uint64) bool {
	return gen == c.issued
}

func (c *collection) record(m mutation) {
	c.pending = append(c.pending, m)
}

func (c *collection) drain() []mutation {
	out := c.pending
	c.pending = nil
	return out
}

type mutationKind int

const (
	categoryCreated mutationKind = iota
	taskCreated
	taskUpdated
	taskDeleted
)

// mutation is a completed local change, replayed onto a list response that
// may predate it. Replays are idempotent by id.
type mutation struct {
	kind     mutationKind
	id       int64
	task     service.Task
	category service.Category
}

func (m mutation) applyCategories(cats []service.Category) []service.Category {
	if m.kind != categoryCreated {
		return cats
	}
	for _, c := range cats {
		if c.ID == m.category.ID {
			return cats
		}
	}
	return append(cats, m.category)
}

// applyTasks replays m onto a task list fetched with filter f. A created task
// outside the filtered category is not added.
func (m mutation) applyTasks(tasks []service.Task, f service.Filter) []service.Task {
	switch m.kind {
	case taskCreated:
		if !f.Includes(m.task.Category) {
			return tasks
		}
		for _, t := range tasks {
			if t.ID == m.task.ID {
				return tasks
			}
		}
		return append([]service.Task{m.task}, tasks...)
	case taskUpdated:
		return replaceTask(tasks, m.id, m.task)
	case taskDeleted:
		return removeTask(tasks, m.id)
	}
	return tasks
}
