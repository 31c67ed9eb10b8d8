package attendance

import (
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/users"
)

// Service enforces the attendance rules: staff roles only, one clock-in per
// day, clock-out requires a prior clock-in and computes the hours worked.
type Service struct {
	repo    Repo
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the attendance service.
func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] attendance repo is required")
	}
	s := &Service{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// ClockIn opens today's attendance record for a staff member.
func (s *Service) ClockIn(user *users.User) (*Record, error) {
	if !user.Role.CanClockAttendance() {
		return nil, apperrors.ErrForbidden
	}

	now := s.nowTime()
	date := now.Format(DateFormat)
	if _, err := s.repo.GetByUserAndDate(user.ID, date); err == nil {
		return nil, apperrors.ErrAlreadyClockedIn
	}

	record := &Record{
		UserID:   user.ID,
		DealerID: user.DealerID,
		Date:     date,
		ClockIn:  now,
	}
	if err := s.repo.Upsert(record); err != nil {
		return nil, errors.Wrap(err, "[ClockIn] failed to store record")
	}
	return record, nil
}

// ClockOut closes today's record and computes the hours worked.
func (s *Service) ClockOut(user *users.User) (*Record, error) {
	if !user.Role.CanClockAttendance() {
		return nil, apperrors.ErrForbidden
	}

	now := s.nowTime()
	record, err := s.repo.GetByUserAndDate(user.ID, now.Format(DateFormat))
	if err != nil {
		return nil, apperrors.ErrNotClockedIn
	}
	if record.ClockOut != nil {
		return nil, apperrors.ErrAlreadyClockedOut
	}

	record.ClockOut = &now
	record.Hours = now.Sub(record.ClockIn).Hours()
	if err := s.repo.Upsert(record); err != nil {
		return nil, errors.Wrap(err, "[ClockOut] failed to store record")
	}
	return record, nil
}

// History returns a user's attendance records, newest day first.
func (s *Service) History(userID string) ([]*Record, error) {
	return s.repo.ListByUser(userID)
}

// StaffDay returns the attendance of a dealer's staff for one day.
func (s *Service) StaffDay(dealerID, date string) ([]*Record, error) {
	if _, err := time.Parse(DateFormat, date); err != nil {
		return nil, errors.Wrap(err, "[StaffDay] invalid date")
	}
	return s.repo.ListByDealerAndDate(dealerID, date)
}

// Edit lets a dealer correct a staff record. Hours are recomputed when both
// timestamps are present.
func (s *Service) Edit(recordID string, clockIn time.Time, clockOut *time.Time) (*Record, error) {
	record, err := s.repo.Get(recordID)
	if err != nil {
		return nil, apperrors.ErrNotFound
	}
	if clockOut != nil && clockOut.Before(clockIn) {
		return nil, errors.New("[Edit] clock-out precedes clock-in")
	}

	record.ClockIn = clockIn
	record.ClockOut = clockOut
	record.Hours = 0
	if clockOut != nil {
		record.Hours = clockOut.Sub(clockIn).Hours()
	}
	if err := s.repo.Upsert(record); err != nil {
		return nil, errors.Wrap(err, "[Edit] failed to store record")
	}
	return record, nil
}
