package logger

// Standard field names for structured logging. Use these constants instead
// of raw strings.
const (
	FieldTaskID        = "task_id"
	FieldJobID         = "job_id"
	FieldRecruiterID   = "recruiter_id"
	FieldApplicationID = "application_id"
	FieldAdminID       = "admin_id"
	FieldRequestID     = "request_id"

	FieldCategory  = "category"
	FieldAction    = "action"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldPremium   = "premium"

	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	FieldError = "error"
)
