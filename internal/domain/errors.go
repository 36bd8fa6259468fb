package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so errors.Is works against the sentinels
// after WithError has wrapped an underlying cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing API token",
		StatusCode: 401,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrStudentNotFound = &AppError{
		Code:       "STUDENT_NOT_FOUND",
		Message:    "Student not found",
		StatusCode: 404,
	}

	ErrStudentExists = &AppError{
		Code:       "STUDENT_ALREADY_EXISTS",
		Message:    "Student already registered for this external_id",
		StatusCode: 409,
	}

	// ErrAttendanceExists surfaces the (student, date) unique constraint. The
	// ledger treats it as the "already marked" outcome, never as a failure.
	ErrAttendanceExists = &AppError{
		Code:       "ATTENDANCE_ALREADY_MARKED",
		Message:    "Attendance already marked for this student today",
		StatusCode: 409,
	}

	// ErrEncodingLoad is fatal at startup: the process must not run against a
	// corrupt or empty identity set, or every face would silently resolve to
	// unknown or to the wrong person.
	ErrEncodingLoad = &AppError{
		Code:       "ENCODING_LOAD_FAILED",
		Message:    "Reference encodings missing, unreadable or malformed",
		StatusCode: 500,
	}

	// ErrFrameAcquisition means the camera could not deliver a frame. The
	// pipeline retries with backoff; it is fatal to the cycle, not the process.
	ErrFrameAcquisition = &AppError{
		Code:       "FRAME_ACQUISITION_FAILED",
		Message:    "Camera unavailable or failed to deliver a frame",
		StatusCode: 503,
	}

	// ErrRegionUnsuitable means one face region could not be embedded. The
	// region is skipped; sibling regions in the same frame still proceed.
	ErrRegionUnsuitable = &AppError{
		Code:       "REGION_UNSUITABLE",
		Message:    "Face region unsuitable for embedding",
		StatusCode: 422,
	}

	// ErrLedgerWrite means durable storage rejected an attendance write. The
	// pipeline retries with bounded backoff before escalating: a confirmed
	// match must never be dropped silently.
	ErrLedgerWrite = &AppError{
		Code:       "LEDGER_WRITE_FAILED",
		Message:    "Attendance storage unavailable",
		StatusCode: 503,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted frame",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Match threshold must be greater than zero",
		StatusCode: 422,
	}

	ErrInvalidDate = &AppError{
		Code:       "INVALID_DATE",
		Message:    "Date must be in YYYY-MM-DD format",
		StatusCode: 422,
	}
)
