package storefront

import (
	"net/http"
	"time"

	"github.com/ebikepoint/erp/attendance"
)

// ClockInHandler opens today's attendance record for the caller.
func (s *Server) ClockInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.deps.Attendance.ClockIn(s.currentUser(r))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusCreated, record)
	}
}

// ClockOutHandler closes today's record and reports the hours worked.
func (s *Server) ClockOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.deps.Attendance.ClockOut(s.currentUser(r))
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, record)
	}
}

// MyAttendanceHandler returns the caller's attendance history.
func (s *Server) MyAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := s.deps.Attendance.History(s.currentUser(r).ID)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, records)
	}
}

// StaffAttendanceHandler returns the dealer's staff attendance for one day
// (default: today).
func (s *Server) StaffAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = time.Now().Format(attendance.DateFormat)
		}

		records, err := s.deps.Attendance.StaffDay(s.currentUser(r).ID, date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date; expected yyyy-mm-dd")
			return
		}
		writeData(w, http.StatusOK, records)
	}
}

// EditAttendanceHandler lets a dealer correct a staff record.
func (s *Server) EditAttendanceHandler() http.HandlerFunc {
	type editRequest struct {
		ClockIn  time.Time  `json:"clockIn"`
		ClockOut *time.Time `json:"clockOut"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req editRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		record, err := s.deps.Attendance.Edit(r.PathValue("id"), req.ClockIn, req.ClockOut)
		if err != nil {
			s.domainError(w, err)
			return
		}
		writeData(w, http.StatusOK, record)
	}
}
