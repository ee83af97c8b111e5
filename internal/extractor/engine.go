// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Document is an opened PDF owned by a single Extract call
type Document interface {
	// NumPages returns the page count fixed at open time
	NumPages() int

	// PageText returns the plain text of page n (1-based). A page without a
	// text layer returns "" and no error.
	PageText(n int) (string, error)

	// Close releases everything the engine holds for the document.
	// The backing reader is owned by the caller.
	Close() error
}

// Engine adapts a PDF parsing library to the Document contract
type Engine interface {
	// Name returns the registry key of the engine (e.g., "ledongthuc")
	Name() string

	// Open parses the document read from r. password is tried when the
	// document is encrypted; an empty password means none was supplied.
	Open(r io.ReaderAt, size int64, password string) (Document, error)
}

// EngineOptions are passed to an EngineFactory
type EngineOptions struct {
	Layout string // engine specific text layout mode, "" for the engine default
}

// EngineFactory builds an Engine for the given options
type EngineFactory func(opts EngineOptions) (Engine, error)

// DefaultEngine is used when no engine name is configured
const DefaultEngine = "ledongthuc"

var (
	enginesMu sync.RWMutex
	engines   = make(map[string]EngineFactory)
)

// RegisterEngine makes an engine available by name. Engines call it from init.
func RegisterEngine(name string, factory EngineFactory) {
	enginesMu.Lock()
	defer enginesMu.Unlock()

	if factory == nil {
		panic("extractor: RegisterEngine factory is nil")
	}
	engines[name] = factory
}

// NewEngine builds the named engine
func NewEngine(name string, opts EngineOptions) (Engine, error) {
	if name == "" {
		name = DefaultEngine
	}

	enginesMu.RLock()
	factory, exists := engines[name]
	enginesMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unsupported engine '%s'. Available engines: %s", name, strings.Join(Engines(), ", "))
	}
	return factory(opts)
}

// Engines returns the sorted names of all registered engines
func Engines() []string {
	enginesMu.RLock()
	defer enginesMu.RUnlock()

	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
