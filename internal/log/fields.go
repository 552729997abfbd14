package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldRunID      = "run_id"
	FieldFile       = "file"
	FieldPeriod     = "period"
	FieldCategories = "categories"
	FieldLines      = "lines"
	FieldRecords    = "records"
	FieldDuration   = "duration_ms"
	FieldBackend    = "backend"
	FieldPath       = "path"
	FieldWarning    = "warning"
	FieldError      = "error"
	FieldLayout     = "layout"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentPipeline  = "pipeline"
	ComponentExtractor = "extractor"
	ComponentStore     = "store"
	ComponentReport    = "report"
	ComponentConfig    = "config"
	ComponentSource    = "textsource"
)

// Operation names
const (
	OpExtract   = "extract"
	OpLoad      = "load"
	OpSave      = "save"
	OpAggregate = "aggregate"
	OpGaps      = "gaps"
	OpExport    = "export"
	OpValidate  = "validate"
	OpArchive   = "archive"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithFile adds the document path
func (f LogFields) WithFile(path string) LogFields {
	f[FieldFile] = path
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithRecord adds the period and category count of an extracted record
func (f LogFields) WithRecord(period string, categories int) LogFields {
	f[FieldPeriod] = period
	f[FieldCategories] = categories
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
