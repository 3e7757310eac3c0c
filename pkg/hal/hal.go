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

// Package hal provides the hardware abstraction layer for the worker's
// GPIO pins. The real and simulated implementations keep pin state in
// the same registry, so tool handlers behave identically on both.
package hal

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

// API of the hardware abstraction layer.
type API interface {
	// Setup configures the given pin with the given direction.
	// Re-configuring with the same direction is a no-op.
	// Changing the direction resets the pin value to 0.
	Setup(ctx context.Context, pin model.Pin, direction model.Direction) error
	// Write drives an output pin to the given value (0 or 1).
	Write(ctx context.Context, pin model.Pin, value int) error
	// Read returns the current value of a configured pin.
	// Input pins are sampled, output pins report their last driven value.
	Read(ctx context.Context, pin model.Pin) (int, error)
	// StateOf returns the registered state of the given pin.
	// Returns false if the pin has not been configured.
	StateOf(pin model.Pin) (model.PinState, bool)
	// Snapshot returns the state of all configured pins,
	// ordered by ascending pin number.
	Snapshot() []PinStatus
	// Close releases all hardware resources.
	Close() error
}

// PinStatus couples a pin number with its registered state.
type PinStatus struct {
	Pin   model.Pin
	State model.PinState
}

// Config holds the settings used to select a HAL implementation.
type Config struct {
	// Simulation selects the in-memory implementation.
	Simulation bool
	// Driver names the line driver used by the real implementation.
	Driver DriverName
}

// Dependencies holds the services used by the HAL.
type Dependencies struct {
	Log zerolog.Logger
	Bus *events.Bus
}

// New creates the HAL implementation selected by the given config.
func New(config Config, deps Dependencies) (API, error) {
	if config.Simulation {
		return NewSimulated(deps.Log, deps.Bus), nil
	}
	driver, err := NewLineDriver(config.Driver)
	if err != nil {
		return nil, maskAny(err)
	}
	return NewReal(deps.Log, deps.Bus, driver)
}
