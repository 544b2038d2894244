package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// NotFound represents a remote object or record that doesn't exist. Bucket
// holds the bucket name for objects, or the table name for records.
type NotFound struct {
	Bucket string
	Key    string
}

func (err NotFound) Error() string {
	return fmt.Sprintf("%s/%s not found", err.Bucket, err.Key)
}

// LookupError represents a key that isn't present in one of the fixed
// lookup tables, such as the sample file type table or the set of upload
// categories.
type LookupError struct {
	Table string
	Key   string
}

func (err LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", err.Table, err.Key)
}

// ParseError represents a query result that doesn't have the expected shape.
type ParseError struct {
	Column string
	Reason string
}

func (err ParseError) Error() string {
	return fmt.Sprintf("parse column %q: %s", err.Column, err.Reason)
}

// EmptyResult represents a query that was required to return rows, but
// didn't return any.
type EmptyResult struct {
	Query string
}

func (err EmptyResult) Error() string {
	return fmt.Sprintf("no data returned from query %q", err.Query)
}
