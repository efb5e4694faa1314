package config

import "fmt"

// ParseError reports a failure to read or decode a configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SerializeError reports a failure to render a tree back to text.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string {
	return fmt.Sprintf("serialize tree: %v", e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}
