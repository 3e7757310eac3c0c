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

// Pin identifies a single GPIO line on the worker board (BCM numbering).
type Pin int

const (
	// MinPin is the lowest addressable GPIO line.
	MinPin Pin = 0
	// MaxPin is the highest addressable GPIO line.
	MaxPin Pin = 40
)

// Validate the pin number, returning nil on ok,
// or an InvalidArgumentError when out of range.
func (p Pin) Validate() error {
	if p < MinPin || p > MaxPin {
		return InvalidArgument("pin %d out of range [%d..%d]", int(p), int(MinPin), int(MaxPin))
	}
	return nil
}

// Direction of a GPIO pin.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Validate the direction, returning nil on ok,
// or an InvalidArgumentError for unknown values.
func (d Direction) Validate() error {
	switch d {
	case DirectionInput, DirectionOutput:
		return nil
	}
	return InvalidArgument("direction '%s' must be '%s' or '%s'", string(d), DirectionInput, DirectionOutput)
}

// Label returns the direction in the upper-case form used in result text.
func (d Direction) Label() string {
	if d == DirectionInput {
		return "INPUT"
	}
	return "OUTPUT"
}

// PinState is a snapshot of a single registered pin.
type PinState struct {
	Direction Direction `json:"direction"`
	Value     int       `json:"value"`
}

// LevelLabel returns the human readable HIGH/LOW label for a pin value.
func LevelLabel(value int) string {
	if value != 0 {
		return "HIGH"
	}
	return "LOW"
}
