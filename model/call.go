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

package model

import (
	"encoding/json"
	"fmt"
)

// ToolCall is a request to invoke a named tool with a set of arguments.
type ToolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is a single content block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the outcome of a completed tool invocation.
// IsError marks soft failures; the call itself still succeeded.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult creates a successful result with a single text block.
func TextResult(format string, args ...interface{}) *ToolResult {
	return &ToolResult{
		Content: []Content{
			{Type: "text", Text: fmt.Sprintf(format, args...)},
		},
	}
}

// ErrorResult creates a soft failure result with a single text block.
func ErrorResult(format string, args ...interface{}) *ToolResult {
	return &ToolResult{
		Content: []Content{
			{Type: "text", Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

// Text returns the concatenated text of all content blocks.
func (r *ToolResult) Text() string {
	if r == nil {
		return ""
	}
	var result string
	for _, c := range r.Content {
		result += c.Text
	}
	return result
}

// AppendText appends a text block to the result.
func (r *ToolResult) AppendText(format string, args ...interface{}) *ToolResult {
	r.Content = append(r.Content, Content{Type: "text", Text: fmt.Sprintf(format, args...)})
	return r
}
