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

// Package events distributes pin state changes and tool call outcomes
// to interested parties such as the status dashboard and the MQTT
// state publisher.
package events

import (
	"context"
	"time"

	"github.com/mattn/go-pubsub"
	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
)

// PinEvent is published whenever the observable state of a pin changes.
type PinEvent struct {
	// Pin that changed.
	Pin model.Pin
	// Direction the pin is configured with.
	Direction model.Direction
	// Value of the pin (0 or 1).
	Value int
	// Time of the change.
	Time time.Time
}

// CallEvent is published after every completed tool invocation.
type CallEvent struct {
	// Tool that was invoked.
	Tool string
	// IsError is set for calls that completed as a soft failure.
	IsError bool
	// Text of the tool result.
	Text string
	// Duration of the invocation.
	Duration time.Duration
	// Time the invocation completed.
	Time time.Time
}

// Bus is used by tool handlers to announce state changes and by
// transports & the UI to receive them.
type Bus struct {
	log        zerolog.Logger
	pinEvents  *pubsub.PubSub
	callEvents *pubsub.PubSub
}

// NewBus creates a new event bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		log:        log,
		pinEvents:  pubsub.New(),
		callEvents: pubsub.New(),
	}
}

// PublishPinEvent announces a pin state change.
func (b *Bus) PublishPinEvent(e PinEvent) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.pinEvents.Pub(e)
}

// PublishCallEvent announces a completed tool invocation.
func (b *Bus) PublishCallEvent(e CallEvent) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.callEvents.Pub(e)
}

// RegisterPinEventReceiver subscribes to pin state changes.
// The returned cancel function removes the subscription.
func (b *Bus) RegisterPinEventReceiver(cb func(PinEvent) error) context.CancelFunc {
	wcb := func(x PinEvent) {
		if err := cb(x); err != nil {
			b.log.Warn().Err(err).Msg("Pin event processing error")
		}
	}
	b.pinEvents.Sub(wcb)
	return func() {
		b.pinEvents.Leave(wcb)
	}
}

// RegisterCallEventReceiver subscribes to tool call outcomes.
// The returned cancel function removes the subscription.
func (b *Bus) RegisterCallEventReceiver(cb func(CallEvent) error) context.CancelFunc {
	wcb := func(x CallEvent) {
		if err := cb(x); err != nil {
			b.log.Warn().Err(err).Msg("Call event processing error")
		}
	}
	b.callEvents.Sub(wcb)
	return func() {
		b.callEvents.Leave(wcb)
	}
}
