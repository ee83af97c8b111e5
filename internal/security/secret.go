// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

// redacted is what a Secret prints as
const redacted = "[REDACTED]"

// Secret holds a document password with best-effort scrubbing on Clear.
//
// Go's garbage collector may copy memory, and Reveal creates an immutable
// string the caller cannot zero, so Clear only shortens the exposure window.
// A nil *Secret behaves as an empty one.
type Secret struct {
	data []byte
}

// NewSecret copies s into a mutable byte slice. An empty s yields nil.
func NewSecret(s string) *Secret {
	if s == "" {
		return nil
	}
	data := make([]byte, len(s))
	copy(data, s)
	return &Secret{data: data}
}

// Reveal returns the plain value. Each call creates a copy Clear cannot reach.
func (s *Secret) Reveal() string {
	if s == nil {
		return ""
	}
	return string(s.data)
}

// IsEmpty reports whether there is no value to reveal
func (s *Secret) IsEmpty() bool {
	return s == nil || len(s.data) == 0
}

// String keeps the value out of logs and %v output
func (s *Secret) String() string {
	if s.IsEmpty() {
		return ""
	}
	return redacted
}

// MarshalText keeps the value out of JSON and YAML output
func (s *Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Clear overwrites the value with zeros and releases it
func (s *Secret) Clear() {
	if s == nil || s.data == nil {
		return
	}
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}
