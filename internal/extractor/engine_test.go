// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRegistry(t *testing.T) {
	RegisterEngine("fake-registry", func(opts EngineOptions) (Engine, error) {
		if opts.Layout == "bogus" {
			return nil, errors.New("bad layout")
		}
		return &fakeEngine{}, nil
	})

	assert.Contains(t, Engines(), "fake-registry")

	engine, err := NewEngine("fake-registry", EngineOptions{})
	require.NoError(t, err)
	assert.Equal(t, "fake", engine.Name())

	_, err = NewEngine("fake-registry", EngineOptions{Layout: "bogus"})
	assert.EqualError(t, err, "bad layout")
}

func TestNewEngine_Unknown(t *testing.T) {
	_, err := NewEngine("does-not-exist", EngineOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported engine 'does-not-exist'")
}

func TestRegisterEngine_NilFactoryPanics(t *testing.T) {
	assert.Panics(t, func() { RegisterEngine("nil", nil) })
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindParse, Path: "menu.pdf", Page: 3, Message: "text extraction failed", Cause: errors.New("bad font")}
	assert.Equal(t, "ParseError: menu.pdf: page 3: text extraction failed: bad font", err.Error())

	ioErr := newIOError("menu.pdf", "file does not exist", nil)
	assert.Equal(t, "IOError: menu.pdf: file does not exist", ioErr.Error())
	assert.Nil(t, ioErr.Unwrap())
}

func TestKindOf_NonExtractorError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.False(t, IsIOError(nil))
	assert.False(t, IsParseError(errors.New("plain")))
}
