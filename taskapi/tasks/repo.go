package tasks

import "strings"

// Filter narrows List results by exact match. Empty fields match anything.
type Filter struct {
	Status   string
	Priority string
}

// SortField is one element of an ORDER BY equivalent.
type SortField struct {
	Field string
	Desc  bool
}

// ParseSort turns a comma-separated sort expression ("-dueDate,title") into
// sort fields. A '-' prefix means descending. An empty expression yields the
// default ordering: newest first.
func ParseSort(expr string) []SortField {
	if strings.TrimSpace(expr) == "" {
		return []SortField{{Field: "createdAt", Desc: true}}
	}

	var fields []SortField
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			fields = append(fields, SortField{Field: part[1:], Desc: true})
		} else {
			fields = append(fields, SortField{Field: part})
		}
	}
	if len(fields) == 0 {
		return []SortField{{Field: "createdAt", Desc: true}}
	}
	return fields
}

// Stats is the per-status task count summary.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}

type Repo interface {
	Create(task *Task) error
	Get(id string) (*Task, error)
	Update(task *Task) error
	Delete(id string) error
	List(filter Filter, sort []SortField) ([]*Task, error)
	Stats() (*Stats, error)
}
