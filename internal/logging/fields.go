package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID tags every line written by one CLI invocation.
	FieldSessionID = "session_id"
	// FieldOperation names the editor API call a line belongs to.
	FieldOperation = "operation"
	// FieldProjectID is the standardized key for editor project identifiers.
	FieldProjectID = "project_id"
	// FieldRenderID is the standardized key for render job identifiers.
	FieldRenderID = "render_id"
	// FieldErrorHint carries a short next step for the reader of a warning.
	FieldErrorHint = "error_hint"
)
