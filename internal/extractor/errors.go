// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the class of an extraction failure
type ErrorKind string

const (
	// KindIO covers a missing path, permission problems and non-regular files
	KindIO ErrorKind = "IOError"
	// KindParse covers malformed, unsupported or encrypted documents
	KindParse ErrorKind = "ParseError"
	// KindCanceled is reported when the context ends between pages
	KindCanceled ErrorKind = "Canceled"
)

var (
	// ErrEncrypted is wrapped by engines when a document cannot be decrypted
	// with the supplied password (or without one).
	ErrEncrypted = errors.New("document is encrypted")

	// ErrNotPDF is reported when the file does not carry a %PDF- header.
	ErrNotPDF = errors.New("not a PDF file")
)

// Error is the single error type returned by Extract
type Error struct {
	Kind    ErrorKind
	Path    string
	Page    int // 1-based page, 0 when the failure is not tied to a page
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	parts = append(parts, string(e.Kind))
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Page > 0 {
		parts = append(parts, fmt.Sprintf("page %d", e.Page))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	msg := strings.Join(parts, ": ")
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Encrypted reports whether the failure was caused by encryption
func (e *Error) Encrypted() bool {
	return errors.Is(e.Cause, ErrEncrypted)
}

// Recoverable reports whether retrying the same call could succeed.
// IO problems (a file being written, a permission fix) and cancellation are
// transient; a document that failed to parse will fail again.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case KindIO, KindCanceled:
		return true
	default:
		return false
	}
}

func newIOError(path, message string, cause error) *Error {
	return &Error{Kind: KindIO, Path: path, Message: message, Cause: cause}
}

func newParseError(path string, page int, message string, cause error) *Error {
	return &Error{Kind: KindParse, Path: path, Page: page, Message: message, Cause: cause}
}

func newCanceledError(path string, page int, cause error) *Error {
	if cause == nil {
		cause = context.Canceled
	}
	return &Error{Kind: KindCanceled, Path: path, Page: page, Message: "extraction canceled", Cause: cause}
}

// KindOf returns the kind of err, or "" when err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsIOError reports whether err is an IOError
func IsIOError(err error) bool {
	return KindOf(err) == KindIO
}

// IsParseError reports whether err is a ParseError
func IsParseError(err error) bool {
	return KindOf(err) == KindParse
}
