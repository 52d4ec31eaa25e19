package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldPeriod     = "period"
	FieldSource     = "source"
	FieldRecords    = "records"
	FieldCategories = "categories"
	FieldTotalSpend = "total_spend"
	FieldIncome     = "income"
	FieldDuration   = "duration_ms"
	FieldExchange   = "exchange"
	FieldRoutingKey = "routing_key"
	FieldAttempt    = "attempt"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentInput    = "input"
	ComponentAnalysis = "analysis"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
)

// Operations defines standard operation names
const (
	OpRead    = "read"
	OpParse   = "parse"
	OpAnalyze = "analyze"
	OpEmit    = "emit"
	OpPublish = "publish"
	OpMigrate = "migrate"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeInternal      = "internal_error"
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

// WithError adds error and error type fields
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithSummary adds the aggregate figures of one analysis
func (f LogFields) WithSummary(records, categories int, totalSpend, income float64) LogFields {
	f[FieldRecords] = records
	f[FieldCategories] = categories
	f[FieldTotalSpend] = totalSpend
	f[FieldIncome] = income
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
