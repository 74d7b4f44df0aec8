package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldStage     = "stage"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldPlatform  = "platform"
	FieldURL       = "url"
	FieldPath      = "path"
	FieldProvider  = "provider"
	FieldSegments  = "segments"
	FieldTurns     = "turns"
	FieldSpeakers  = "speakers"
)

// Fields builds a map from alternating key-value pairs. Non-string keys and a
// trailing key without a value are dropped.
//
//	logger.Info("done", logger.Fields("stage", "convert", "path", out))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// StageFields creates fields for a finished pipeline stage.
func StageFields(stage string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldStage:    stage,
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
