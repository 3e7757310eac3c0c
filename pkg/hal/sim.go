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

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

// Simulated is a HAL implementation that keeps all pin state in
// memory. It is used on machines without GPIO hardware and in tests.
type Simulated struct {
	log   zerolog.Logger
	mutex sync.Mutex
	reg   registry
}

// NewSimulated creates a HAL that touches no hardware.
func NewSimulated(log zerolog.Logger, bus *events.Bus) *Simulated {
	return &Simulated{
		log: log.With().Str("component", "hal-sim").Logger(),
		reg: newRegistry(bus),
	}
}

// Setup configures the given pin with the given direction.
func (s *Simulated) Setup(ctx context.Context, pin model.Pin, direction model.Direction) error {
	if err := pin.Validate(); err != nil {
		return maskAny(err)
	}
	if err := direction.Validate(); err != nil {
		return maskAny(err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pinSetupsTotal.WithLabelValues(string(direction)).Inc()
	if s.reg.configure(pin, direction) {
		s.log.Debug().
			Int("pin", int(pin)).
			Str("direction", string(direction)).
			Msg("pin configured")
	}
	return nil
}

// Write drives an output pin to the given value.
func (s *Simulated) Write(ctx context.Context, pin model.Pin, value int) error {
	if err := pin.Validate(); err != nil {
		return maskAny(err)
	}
	if err := checkValue(value); err != nil {
		return maskAny(err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pinWritesTotal.Inc()
	state, found := s.reg.get(pin)
	if !found {
		pinErrorsTotal.WithLabelValues("write").Inc()
		return errNotConfigured(pin)
	}
	if state.Direction != model.DirectionOutput {
		pinErrorsTotal.WithLabelValues("write").Inc()
		return errNotOutput(pin)
	}
	s.reg.setValue(pin, value)
	return nil
}

// Read returns the current value of a configured pin.
func (s *Simulated) Read(ctx context.Context, pin model.Pin) (int, error) {
	if err := pin.Validate(); err != nil {
		return 0, maskAny(err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pinReadsTotal.Inc()
	state, found := s.reg.get(pin)
	if !found {
		pinErrorsTotal.WithLabelValues("read").Inc()
		return 0, errNotConfigured(pin)
	}
	return state.Value, nil
}

// StateOf returns the registered state of the given pin.
func (s *Simulated) StateOf(pin model.Pin) (model.PinState, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.reg.get(pin)
}

// Snapshot returns the state of all configured pins.
func (s *Simulated) Snapshot() []PinStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.reg.snapshot()
}

// Close releases all hardware resources.
func (s *Simulated) Close() error {
	return nil
}

// SetInputLevel drives the level observed on an input pin.
// It mimics external equipment changing a line in simulation runs.
func (s *Simulated) SetInputLevel(pin model.Pin, value int) error {
	if err := pin.Validate(); err != nil {
		return maskAny(err)
	}
	if err := checkValue(value); err != nil {
		return maskAny(err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, found := s.reg.get(pin)
	if !found {
		return errNotConfigured(pin)
	}
	if state.Direction != model.DirectionInput {
		return model.InvalidDirection("pin %d is set up as output", int(pin))
	}
	s.reg.setValue(pin, value)
	return nil
}
