package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across packages.
const (
	FieldRunID      = "run_id"
	FieldStage      = "stage"
	FieldSegment    = "segment"
	FieldSegments   = "segments"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldCustomerID = "customer_id"
	FieldCustomers  = "customers"
	FieldReason     = "reason"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
