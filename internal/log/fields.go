package log

import "sort"

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldDuration  = "duration_ms"
	FieldBackend   = "backend"
	FieldKey       = "key"
	FieldBytes     = "bytes"
	FieldCount     = "count"
	FieldCaseID    = "case_id"
	FieldDate      = "date"
	FieldStatus    = "status"
	FieldAmount    = "amount"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldEventKind = "event_kind"
	FieldSheetsRef = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentService = "service"
	ComponentStorage = "storage"
	ComponentKV      = "kv"
	ComponentCache   = "cache"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpUpsert   = "upsert"
	OpAppend   = "append"
	OpSync     = "sync"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithKey adds the medium key and payload size.
func (f LogFields) WithKey(key string, bytes int) LogFields {
	f[FieldKey] = key
	f[FieldBytes] = bytes
	return f
}

// WithAttendance adds the fields identifying one attendance mark.
func (f LogFields) WithAttendance(caseID, date, status string) LogFields {
	f[FieldCaseID] = caseID
	f[FieldDate] = date
	f[FieldStatus] = status
	return f
}

// WithPayment adds the fields identifying one payment.
func (f LogFields) WithPayment(caseID, date string, amount float64) LogFields {
	f[FieldCaseID] = caseID
	f[FieldDate] = date
	f[FieldAmount] = amount
	return f
}

// WithPeriod adds year and month.
func (f LogFields) WithPeriod(year, month int) LogFields {
	f[FieldYear] = year
	f[FieldMonth] = month
	return f
}

// ToSlice converts LogFields to a slice for slog, ordered by key.
func (f LogFields) ToSlice() []any {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	slice := make([]any, 0, len(f)*2)
	for _, k := range keys {
		slice = append(slice, k, f[k])
	}
	return slice
}
