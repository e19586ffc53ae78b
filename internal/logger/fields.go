package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldResumePath is the structured log field key for the resume file being processed.
	FieldResumePath = "resume_path"
	// FieldCandidate is the structured log field key for the extracted candidate name.
	FieldCandidate = "candidate"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the fields that identify a resume in the matching pipeline.
// Empty values are ignored to keep log entries compact.
func CommonFields(resumePath, candidate string) []zap.Field {
	return StringFields(
		StringField{Key: FieldResumePath, Value: resumePath},
		StringField{Key: FieldCandidate, Value: candidate},
	)
}

// WithCommonFields attaches the resume fields to the provided logger.
func WithCommonFields(logger *zap.Logger, resumePath, candidate string) *zap.Logger {
	return WithFields(logger, CommonFields(resumePath, candidate)...)
}
