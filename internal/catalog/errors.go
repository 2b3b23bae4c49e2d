package catalog

import "fmt"

// ErrorKind separates fetch failures from schema failures.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindValidation ErrorKind = "validation"
)

// LoadError is returned by every Provider when the catalog cannot be produced.
type LoadError struct {
	Kind   ErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog %s error (%s): %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func transportErr(source string, err error) error {
	return &LoadError{Kind: KindTransport, Source: source, Err: err}
}

func validationErr(source string, err error) error {
	return &LoadError{Kind: KindValidation, Source: source, Err: err}
}
