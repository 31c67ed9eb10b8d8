package fakeattendancerepo

import (
	"sort"
	"sync"

	"github.com/ebikepoint/erp/attendance"
	"github.com/ebikepoint/erp/internal/errors"
	"github.com/google/uuid"
)

var _ attendance.Repo = (*FakeAttendanceRepo)(nil)

type FakeAttendanceRepo struct {
	records map[string]*attendance.Record
	dayIds  map[string]string // userID+"/"+date to record id
	lock    sync.RWMutex
}

func NewFakeAttendanceRepo() *FakeAttendanceRepo {
	return &FakeAttendanceRepo{
		records: make(map[string]*attendance.Record),
		dayIds:  make(map[string]string),
	}
}

func dayKey(userID, date string) string {
	return userID + "/" + date
}

func (ar *FakeAttendanceRepo) Upsert(record *attendance.Record) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	ar.records[record.ID] = record
	ar.dayIds[dayKey(record.UserID, record.Date)] = record.ID
	return nil
}

func (ar *FakeAttendanceRepo) Get(id string) (*attendance.Record, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	record, ok := ar.records[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (ar *FakeAttendanceRepo) GetByUserAndDate(userID, date string) (*attendance.Record, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.dayIds[dayKey(userID, date)]
	if !ok {
		return nil, errors.ErrNotFound
	}
	copied := *ar.records[id]
	return &copied, nil
}

func (ar *FakeAttendanceRepo) ListByUser(userID string) ([]*attendance.Record, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	var matched []*attendance.Record
	for _, record := range ar.records {
		if record.UserID == userID {
			copied := *record
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })
	return matched, nil
}

func (ar *FakeAttendanceRepo) ListByDealerAndDate(dealerID, date string) ([]*attendance.Record, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	var matched []*attendance.Record
	for _, record := range ar.records {
		if record.DealerID == dealerID && record.Date == date {
			copied := *record
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })
	return matched, nil
}
