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
	"sort"
	"strconv"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

// registry tracks the configured state of all pins and announces
// changes on the event bus. It is shared by the real and simulated
// implementations so both report state the same way.
// Callers must hold the implementation lock.
type registry struct {
	states map[model.Pin]model.PinState
	bus    *events.Bus
}

func newRegistry(bus *events.Bus) registry {
	return registry{
		states: make(map[model.Pin]model.PinState),
		bus:    bus,
	}
}

// configure records the direction of a pin.
// Returns true if the pin is newly claimed or its direction changed,
// in which case the value has been reset to 0.
func (r *registry) configure(pin model.Pin, direction model.Direction) bool {
	if state, found := r.states[pin]; found && state.Direction == direction {
		return false
	}
	r.states[pin] = model.PinState{Direction: direction, Value: 0}
	pinsConfiguredGauge.Set(float64(len(r.states)))
	r.announce(pin)
	return true
}

// setValue records the value of a configured pin.
func (r *registry) setValue(pin model.Pin, value int) {
	state, found := r.states[pin]
	if !found || state.Value == value {
		return
	}
	state.Value = value
	r.states[pin] = state
	r.announce(pin)
}

// get returns the state of a pin.
func (r *registry) get(pin model.Pin) (model.PinState, bool) {
	state, found := r.states[pin]
	return state, found
}

// snapshot returns all configured pins in ascending pin order.
func (r *registry) snapshot() []PinStatus {
	result := make([]PinStatus, 0, len(r.states))
	for pin, state := range r.states {
		result = append(result, PinStatus{Pin: pin, State: state})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Pin < result[j].Pin })
	return result
}

func (r *registry) announce(pin model.Pin) {
	state := r.states[pin]
	pinValueGauge.WithLabelValues(strconv.Itoa(int(pin))).Set(float64(state.Value))
	if r.bus != nil {
		r.bus.PublishPinEvent(events.PinEvent{
			Pin:       pin,
			Direction: state.Direction,
			Value:     state.Value,
		})
	}
}
