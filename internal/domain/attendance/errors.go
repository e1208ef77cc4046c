package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrAccountNotActive  = errors.New("your account is not active")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNotRecordOwner     = errors.New("attendance record belongs to another user")
)
