package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

type ErrorCode string

const (
	ErrCodeInputValidationFailed  ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeUnsupportedIntakeShape ErrorCode = "UNSUPPORTED_INTAKE_SHAPE"

	ErrCodeReasoningUnavailable ErrorCode = "REASONING_UNAVAILABLE"
	ErrCodeReasoningTimeout     ErrorCode = "REASONING_TIMEOUT"
	ErrCodeReasoningParseFailed ErrorCode = "REASONING_PARSE_FAILED"

	ErrCodeBlueprintStoreFailed ErrorCode = "BLUEPRINT_STORE_FAILED"
	ErrCodeBlueprintNotFound    ErrorCode = "BLUEPRINT_NOT_FOUND"
	ErrCodeAuditIndexFailed     ErrorCode = "AUDIT_INDEX_FAILED"
	ErrCodeArtifactUploadFailed ErrorCode = "ARTIFACT_UPLOAD_FAILED"
	ErrCodeEventPublishFailed   ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Request payload failed validation", details, false)
}

func NewUnsupportedIntakeShapeError(details string) *StandardError {
	return newError(ErrCodeUnsupportedIntakeShape, "Intake matches neither the current nor the legacy shape", details, false)
}

func NewReasoningUnavailableError(provider string, err error) *StandardError {
	return newError(ErrCodeReasoningUnavailable, fmt.Sprintf("Reasoning provider '%s' unavailable", provider), err.Error(), true)
}

func NewReasoningTimeoutError(provider string) *StandardError {
	return newError(ErrCodeReasoningTimeout, "Reasoning call timed out", fmt.Sprintf("provider: %s", provider), true)
}

func NewReasoningParseError(err error) *StandardError {
	return newError(ErrCodeReasoningParseFailed, "Reasoning response could not be parsed", err.Error(), false)
}

func NewBlueprintStoreError(runID string, err error) *StandardError {
	return newError(ErrCodeBlueprintStoreFailed, "Blueprint persistence failed", fmt.Sprintf("runId: %s, error: %s", runID, err.Error()), true)
}

func NewBlueprintNotFoundError(runID string) *StandardError {
	return newError(ErrCodeBlueprintNotFound, "Blueprint not found", fmt.Sprintf("runId: %s", runID), false)
}

func NewAuditIndexError(runID string, err error) *StandardError {
	return newError(ErrCodeAuditIndexFailed, "Execution audit indexing failed", fmt.Sprintf("runId: %s, error: %s", runID, err.Error()), true)
}

func NewArtifactUploadError(key string, err error) *StandardError {
	return newError(ErrCodeArtifactUploadFailed, "Handoff artifact upload failed", fmt.Sprintf("key: %s, error: %s", key, err.Error()), true)
}

func NewEventPublishError(topic string, err error) *StandardError {
	return newError(ErrCodeEventPublishFailed, "Pipeline event publish failed", fmt.Sprintf("topic: %s, error: %s", topic, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeBlueprintStoreFailed,
		ErrCodeAuditIndexFailed,
		ErrCodeArtifactUploadFailed,
		ErrCodeEventPublishFailed,
		ErrCodeReasoningUnavailable:
		return 3
	case ErrCodeReasoningTimeout:
		return 1
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// HTTPStatus maps an error code onto the status used by the API envelope.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInputValidationFailed, ErrCodeUnsupportedIntakeShape:
		return 400
	case ErrCodeBlueprintNotFound:
		return 404
	case ErrCodeReasoningTimeout:
		return 504
	case ErrCodeReasoningUnavailable:
		return 502
	default:
		return 500
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// AsStandardError unwraps err looking for a *StandardError. Anything else is
// reported as an internal error.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
