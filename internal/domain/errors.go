package domain

import "fmt"

// Error types for consistent error handling across the engine.

// ParseErrorKind tags the fatal parse failure taxonomy.
type ParseErrorKind string

const (
	ParseNoTextContent       ParseErrorKind = "no_text_content"
	ParseUnsupportedFormat   ParseErrorKind = "unsupported_format"
	ParseCorruptDocument     ParseErrorKind = "corrupt_document"
	ParseNoTransactionsFound ParseErrorKind = "no_transactions_found"
)

// ParseWarning records a line the parser skipped instead of aborting.
type ParseWarning struct {
	Line   int    `json:"line"`
	Text   string `json:"text,omitempty"`
	Reason string `json:"reason"`
}

// ParseError is fatal to the pipeline. It carries any per-line warnings
// collected before the failure so callers get actionable diagnostics.
type ParseError struct {
	Kind     ParseErrorKind
	Warnings []ParseWarning
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parse failed (%s)", e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError of the given kind.
func NewParseError(kind ParseErrorKind, warnings []ParseWarning, err error) *ParseError {
	return &ParseError{Kind: kind, Warnings: warnings, Err: err}
}

// ErrValidation indicates a transaction violated the amount/type invariant
// after parsing. Such records are dropped with a warning, not fatal, unless
// every record is dropped.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrClassifier indicates a remote classification failure. It is always
// recovered inside the categorization engine and never propagated past it.
type ErrClassifier struct {
	Timeout bool
	Err     error
}

func (e *ErrClassifier) Error() string {
	if e.Timeout {
		return fmt.Sprintf("classifier timeout: %v", e.Err)
	}
	return fmt.Sprintf("classifier error: %v", e.Err)
}

func (e *ErrClassifier) Unwrap() error {
	return e.Err
}

// ErrScoring indicates a violated scoring invariant (e.g. a score outside
// [0,100] before clamping sanity checks). It is an internal defect and
// should not occur under correct operation.
type ErrScoring struct {
	Message string
}

func (e *ErrScoring) Error() string {
	return fmt.Sprintf("scoring invariant violated: %s", e.Message)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}
