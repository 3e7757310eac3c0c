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
	"github.com/pkg/errors"
)

var (
	// NotInitializedError indicates a pin was used before setup.
	NotInitializedError = errors.New("pin not initialized")
	IsNotInitialized    = isErrorFunc(NotInitializedError)

	// InvalidArgumentError indicates a schema, range or enum violation.
	InvalidArgumentError = errors.New("invalid argument")
	IsInvalidArgument    = isErrorFunc(InvalidArgumentError)

	// InvalidDirectionError indicates an operation incompatible with
	// the direction a pin was set up with.
	InvalidDirectionError = errors.New("invalid direction")
	IsInvalidDirection    = isErrorFunc(InvalidDirectionError)

	// MethodNotFoundError indicates an unknown tool or protocol method.
	MethodNotFoundError = errors.New("method not found")
	IsMethodNotFound    = isErrorFunc(MethodNotFoundError)

	// ValidationError indicates an invalid configuration.
	ValidationError = errors.New("validation failed")
	IsValidation    = isErrorFunc(ValidationError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}

// NotInitialized creates a NotInitializedError with given formatted message.
func NotInitialized(format string, args ...interface{}) error {
	return errors.Wrapf(NotInitializedError, format, args...)
}

// InvalidArgument creates an InvalidArgumentError with given formatted message.
func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(InvalidArgumentError, format, args...)
}

// InvalidDirection creates an InvalidDirectionError with given formatted message.
func InvalidDirection(format string, args ...interface{}) error {
	return errors.Wrapf(InvalidDirectionError, format, args...)
}

// MethodNotFound creates a MethodNotFoundError with given formatted message.
func MethodNotFound(format string, args ...interface{}) error {
	return errors.Wrapf(MethodNotFoundError, format, args...)
}

// JSON-RPC 2.0 error codes used on the hard failure channel.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrorCode maps an error from the dispatch path to its JSON-RPC error code.
// Anything that is not a known-before-mutation failure is an internal error.
func ErrorCode(err error) int {
	switch {
	case IsMethodNotFound(err):
		return CodeMethodNotFound
	case IsInvalidArgument(err):
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}
