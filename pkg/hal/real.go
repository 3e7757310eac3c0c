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

package hal

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

// Real is a HAL implementation that drives physical GPIO lines
// through a line driver.
type Real struct {
	log    zerolog.Logger
	driver LineDriver
	mutex  sync.Mutex
	reg    registry
	lines  map[model.Pin]Line
}

// NewReal creates a HAL on top of the given line driver.
func NewReal(log zerolog.Logger, bus *events.Bus, driver LineDriver) (*Real, error) {
	if err := driver.Open(); err != nil {
		return nil, errors.Wrap(err, "Open line driver failed")
	}
	return &Real{
		log:    log.With().Str("component", "hal").Logger(),
		driver: driver,
		reg:    newRegistry(bus),
		lines:  make(map[model.Pin]Line),
	}, nil
}

// Setup configures the given pin with the given direction.
func (r *Real) Setup(ctx context.Context, pin model.Pin, direction model.Direction) error {
	if err := pin.Validate(); err != nil {
		return maskAny(err)
	}
	if err := direction.Validate(); err != nil {
		return maskAny(err)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pinSetupsTotal.WithLabelValues(string(direction)).Inc()
	if state, found := r.reg.get(pin); found && state.Direction == direction {
		return nil
	}
	line, err := r.driver.Claim(pin, direction)
	if err != nil {
		pinErrorsTotal.WithLabelValues("setup").Inc()
		return errors.Wrapf(err, "Claim pin %d failed", int(pin))
	}
	r.lines[pin] = line
	r.reg.configure(pin, direction)
	r.log.Debug().
		Int("pin", int(pin)).
		Str("direction", string(direction)).
		Msg("pin configured")
	return nil
}

// Write drives an output pin to the given value.
func (r *Real) Write(ctx context.Context, pin model.Pin, value int) error {
	if err := pin.Validate(); err != nil {
		return maskAny(err)
	}
	if err := checkValue(value); err != nil {
		return maskAny(err)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pinWritesTotal.Inc()
	state, found := r.reg.get(pin)
	if !found {
		pinErrorsTotal.WithLabelValues("write").Inc()
		return errNotConfigured(pin)
	}
	if state.Direction != model.DirectionOutput {
		pinErrorsTotal.WithLabelValues("write").Inc()
		return errNotOutput(pin)
	}
	if err := r.lines[pin].Set(value); err != nil {
		pinErrorsTotal.WithLabelValues("write").Inc()
		return errors.Wrapf(err, "Set pin %d failed", int(pin))
	}
	r.reg.setValue(pin, value)
	return nil
}

// Read returns the current value of a configured pin.
// Input pins are sampled from the line, output pins report the last
// driven value.
func (r *Real) Read(ctx context.Context, pin model.Pin) (int, error) {
	if err := pin.Validate(); err != nil {
		return 0, maskAny(err)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	pinReadsTotal.Inc()
	state, found := r.reg.get(pin)
	if !found {
		pinErrorsTotal.WithLabelValues("read").Inc()
		return 0, errNotConfigured(pin)
	}
	if state.Direction == model.DirectionOutput {
		return state.Value, nil
	}
	value, err := r.lines[pin].Get()
	if err != nil {
		pinErrorsTotal.WithLabelValues("read").Inc()
		return 0, errors.Wrapf(err, "Get pin %d failed", int(pin))
	}
	r.reg.setValue(pin, value)
	return value, nil
}

// StateOf returns the registered state of the given pin.
func (r *Real) StateOf(pin model.Pin) (model.PinState, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.reg.get(pin)
}

// Snapshot returns the state of all configured pins.
func (r *Real) Snapshot() []PinStatus {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.reg.snapshot()
}

// Close releases the line driver.
func (r *Real) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.driver.Close(); err != nil {
		return errors.Wrap(err, "Close line driver failed")
	}
	return nil
}
