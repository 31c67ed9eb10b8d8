package fakerequestrepo

import (
	"sort"
	"sync"
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/servicing"
	"github.com/google/uuid"
)

var _ servicing.Repo = (*FakeRequestRepo)(nil)

type FakeRequestRepo struct {
	requests map[string]*servicing.Request
	lock     sync.RWMutex
}

func NewFakeRequestRepo() *FakeRequestRepo {
	return &FakeRequestRepo{requests: make(map[string]*servicing.Request)}
}

func (rr *FakeRequestRepo) Upsert(request *servicing.Request) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	now := time.Now()
	if request.ID == "" {
		request.ID = uuid.New().String()
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	rr.requests[request.ID] = request
	return nil
}

func (rr *FakeRequestRepo) Get(id string) (*servicing.Request, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	request, ok := rr.requests[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (rr *FakeRequestRepo) ListByCustomer(customerID string) ([]*servicing.Request, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	var matched []*servicing.Request
	for _, request := range rr.requests {
		if request.CustomerID == customerID {
			copied := *request
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (rr *FakeRequestRepo) ListByAssignee(servicemanID string) ([]*servicing.Request, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	var matched []*servicing.Request
	for _, request := range rr.requests {
		if request.AssignedToID == servicemanID {
			copied := *request
			matched = append(matched, &copied)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

func (rr *FakeRequestRepo) ListAll() ([]*servicing.Request, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	all := make([]*servicing.Request, 0, len(rr.requests))
	for _, request := range rr.requests {
		copied := *request
		all = append(all, &copied)
	}
	sortNewestFirst(all)
	return all, nil
}

func sortNewestFirst(list []*servicing.Request) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
}
