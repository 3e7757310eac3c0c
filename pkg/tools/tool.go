// Copyright 2025 The GardenWorker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tools contains the tool registry and the dispatcher that
// routes named tool calls to their handlers.
package tools

import (
	"context"

	"github.com/gardennet/GardenWorker/model"
)

// Handler executes a tool call. Its arguments have already been
// validated against the tool's schema. A nil error with IsError set on
// the result is a soft failure; a non-nil error is a hard failure.
type Handler func(ctx context.Context, args Arguments) (*model.ToolResult, error)

// Tool is a named operation exposed to remote callers.
type Tool struct {
	// Name of the tool, unique within a dispatcher.
	Name string
	// Description shown in tool listings.
	Description string
	// Schema the arguments are validated against.
	Schema Schema
	// Handler that executes the call.
	Handler Handler
}

// Arguments holds the arguments of a tool call after validation.
// Numeric values are float64, as decoded from JSON.
type Arguments map[string]interface{}

// Int returns the named argument as an int.
// Returns false if absent.
func (a Arguments) Int(name string) (int, bool) {
	v, found := a[name].(float64)
	return int(v), found
}

// Float returns the named argument as a float64.
// Returns false if absent.
func (a Arguments) Float(name string) (float64, bool) {
	v, found := a[name].(float64)
	return v, found
}

// String returns the named argument as a string.
// Returns false if absent.
func (a Arguments) String(name string) (string, bool) {
	v, found := a[name].(string)
	return v, found
}
