package logging

// Standardized field names for structured logging. Keeping these in one place
// makes the pipeline's log output consistent and easy to filter.
const (
	FieldSource     = "source"
	FieldChannel    = "channel"
	FieldCategory   = "category"
	FieldConfidence = "confidence"
	FieldAmount     = "amount"
	FieldCount      = "count"
	FieldFile       = "file_path"
	FieldImage      = "image"
	FieldModelDir   = "model_dir"
	FieldReason     = "reason"
	FieldDuration   = "duration_ms"
	FieldOperation  = "operation"
)
