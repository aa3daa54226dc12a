package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput           = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound         = errors.New("file not found")
	ErrFileEmpty            = errors.New("file is empty")
	ErrNoInput              = errors.New("no input provided: please specify a file with -i or pipe a schema document to stdin")
	ErrInvalidFilePath      = errors.New("invalid file path")
	ErrUnknownDocument      = errors.New("document is neither OpenAPI, Swagger nor JSON Schema")
	ErrSchemaNotFound       = errors.New("schema not found")
	ErrOperationNotFound    = errors.New("operation not found")
	ErrResponseNotFound     = errors.New("response schema not found")
	ErrUnsupportedReference = errors.New("unsupported $ref")
	ErrUnknownFormat        = errors.New("unknown format")
	ErrNoSchemaSelected     = errors.New("no schema selected")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeSchema    ErrorType = "schema"
	ErrorTypeSynthesis ErrorType = "synthesis"
	ErrorTypeRender    ErrorType = "render"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(errorType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to decoding a document
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewSchemaError creates a new error related to locating or converting a schema
func NewSchemaError(message string, err error) *AppError {
	return newError(ErrorTypeSchema, message, err)
}

// NewSynthesisError creates a new error related to example synthesis
func NewSynthesisError(message string, err error) *AppError {
	return newError(ErrorTypeSynthesis, message, err)
}

// NewRenderError creates a new error related to rendering an example
func NewRenderError(message string, err error) *AppError {
	return newError(ErrorTypeRender, message, err)
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Document parsing error: %s", appErr.Message)
		case ErrorTypeSchema:
			return fmt.Sprintf("Schema error: %s", appErr.Message)
		case ErrorTypeSynthesis:
			return fmt.Sprintf("Example synthesis error: %s", appErr.Message)
		case ErrorTypeRender:
			return fmt.Sprintf("Render error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide a schema document."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with a schema document."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify a file with -i or pipe a schema document to stdin."
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case errors.Is(err, ErrUnknownDocument):
		return "Error: The input is not an OpenAPI, Swagger or JSON Schema document."
	case errors.Is(err, ErrSchemaNotFound):
		return "Error: The requested schema does not exist. Use --list to see available schemas."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
