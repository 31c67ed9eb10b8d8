// Package attendance tracks the daily clock-in/clock-out records of dealer
// staff. One record per user per calendar day.
package attendance

import "time"

// DateFormat is the calendar-day key format for attendance records.
const DateFormat = "2006-01-02"

// Record is one staff member's attendance for one day.
type Record struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	DealerID string     `json:"dealerId"`
	Date     string     `json:"date"` // yyyy-mm-dd
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut,omitempty"`
	Hours    float64    `json:"hours"`
}

// Repo abstracts attendance storage.
type Repo interface {
	Upsert(record *Record) error
	Get(id string) (*Record, error)
	GetByUserAndDate(userID, date string) (*Record, error)
	ListByUser(userID string) ([]*Record, error)
	ListByDealerAndDate(dealerID, date string) ([]*Record, error)
}
