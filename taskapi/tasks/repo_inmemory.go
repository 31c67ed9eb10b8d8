package tasks

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/google/uuid"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps tasks in a map. It backs tests and the default
// zero-configuration deployment.
type InMemoryRepo struct {
	tasks map[string]*Task
	lock  sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{tasks: make(map[string]*Task)}
}

func (r *InMemoryRepo) Create(task *Task) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Get(id string) (*Task, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, errors.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *InMemoryRepo) Update(task *Task) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return errors.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now()

	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *InMemoryRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errors.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *InMemoryRepo) List(filter Filter, sortFields []SortField) ([]*Task, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	matched := make([]*Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if filter.Status != "" && string(task.Status) != filter.Status {
			continue
		}
		if filter.Priority != "" && string(task.Priority) != filter.Priority {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}

	sortTasks(matched, sortFields)
	return matched, nil
}

func (r *InMemoryRepo) Stats() (*Stats, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	stats := &Stats{ByStatus: make(map[Status]int)}
	for _, task := range r.tasks {
		stats.Total++
		stats.ByStatus[task.Status]++
	}
	return stats, nil
}

// sortTasks applies the sort fields in order, falling back to id for a
// stable total order.
func sortTasks(list []*Task, fields []SortField) {
	sort.SliceStable(list, func(i, j int) bool {
		for _, f := range fields {
			cmp := compareField(list[i], list[j], f.Field)
			if cmp == 0 {
				continue
			}
			if f.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return list[i].ID < list[j].ID
	})
}

func compareField(a, b *Task, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "priority":
		return strings.Compare(string(a.Priority), string(b.Priority))
	case "dueDate":
		return compareTimePtr(a.DueDate, b.DueDate)
	case "updatedAt":
		return compareTime(a.UpdatedAt, b.UpdatedAt)
	case "completed":
		return compareBool(a.Completed, b.Completed)
	default: // createdAt and unknown fields
		return compareTime(a.CreatedAt, b.CreatedAt)
	}
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareTime(*a, *b)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
