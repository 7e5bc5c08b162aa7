package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownWord     = errors.New("unknown word")
	ErrNoResults       = errors.New("no results")
	ErrNoBigram        = errors.New("no bigram")
	ErrQueryFormat     = errors.New("malformed query")
	ErrInvalidDocument = errors.New("invalid document")
	ErrDocumentExists  = errors.New("document already exists")
	ErrIndexFrozen     = errors.New("index is frozen")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

type AppError struct {
	Err     error
	Message string
	Query   string
}

func (e *AppError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s: %s (query %q)", e.Err.Error(), e.Message, e.Query)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithQuery attaches the offending query line to err. An AppError is copied
// so the original stays untouched; other errors are wrapped as malformed
// queries.
func WithQuery(err error, query string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		cp := *appErr
		cp.Query = query
		return &cp
	}
	return &AppError{Err: ErrQueryFormat, Message: err.Error(), Query: query}
}

// Query returns the query text attached to err, if any.
func Query(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Query
	}
	return ""
}

// Kind maps err to a stable label used in logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownWord):
		return "unknown_word"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrNoBigram):
		return "no_bigram"
	case errors.Is(err, ErrQueryFormat):
		return "query_format"
	case errors.Is(err, ErrInvalidDocument):
		return "invalid_document"
	case errors.Is(err, ErrDocumentExists):
		return "document_exists"
	case errors.Is(err, ErrIndexFrozen):
		return "index_frozen"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	default:
		return "internal"
	}
}
