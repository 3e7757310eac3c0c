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

package tools

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

// Config holds the settings of a dispatcher.
type Config struct {
	// SimulationMarker, when non-empty, is appended as an extra line
	// to the text of every result, so callers can tell simulated
	// responses apart from real ones.
	SimulationMarker string
}

// Dependencies holds the services used by a dispatcher.
type Dependencies struct {
	Log zerolog.Logger
	Bus *events.Bus
}

// Dispatcher routes tool calls to registered handlers.
// Calls are validated before their handler runs and are processed one
// at a time.
type Dispatcher struct {
	log    zerolog.Logger
	bus    *events.Bus
	marker string
	sem    *semaphore.Weighted
	tools  map[string]Tool
	order  []string
}

// New creates an empty dispatcher.
func New(config Config, deps Dependencies) *Dispatcher {
	return &Dispatcher{
		log:    deps.Log.With().Str("component", "dispatch").Logger(),
		bus:    deps.Bus,
		marker: config.SimulationMarker,
		sem:    semaphore.NewWeighted(1),
		tools:  make(map[string]Tool),
	}
}

// MustRegister adds the given tools to the dispatcher.
// It panics when a tool name is already taken, so registration
// conflicts show up at startup, not at call time.
func (d *Dispatcher) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if _, found := d.tools[t.Name]; found {
			panic("duplicate tool name: " + t.Name)
		}
		d.tools[t.Name] = t
		d.order = append(d.order, t.Name)
	}
}

// Tools returns all registered tools in registration order.
func (d *Dispatcher) Tools() []Tool {
	result := make([]Tool, 0, len(d.order))
	for _, name := range d.order {
		result = append(result, d.tools[name])
	}
	return result
}

// Dispatch validates the given call and runs its handler.
// A non-nil error is a hard failure; consult model.ErrorCode for the
// protocol error code. A result with IsError set is a soft failure.
func (d *Dispatcher) Dispatch(ctx context.Context, call model.ToolCall) (*model.ToolResult, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, maskAny(err)
	}
	defer d.sem.Release(1)

	start := time.Now()
	result, err := d.run(ctx, call)
	duration := time.Since(start)

	outcome := "ok"
	text := result.Text()
	switch {
	case err != nil:
		outcome = "hard-failure"
		text = err.Error()
	case result.IsError:
		outcome = "soft-failure"
	}
	toolCallsTotal.WithLabelValues(call.Name, outcome).Inc()
	callDurations.Observe(duration.Seconds())
	if d.bus != nil {
		d.bus.PublishCallEvent(events.CallEvent{
			Tool:     call.Name,
			IsError:  err != nil || result.IsError,
			Text:     text,
			Duration: duration,
		})
	}
	d.log.Debug().
		Str("tool", call.Name).
		Str("outcome", outcome).
		Dur("duration", duration).
		Msg("tool call dispatched")

	if err != nil {
		return nil, err
	}
	if d.marker != "" {
		result.AppendText("%s", d.marker)
	}
	return result, nil
}

func (d *Dispatcher) run(ctx context.Context, call model.ToolCall) (result *model.ToolResult, err error) {
	tool, found := d.tools[call.Name]
	if !found {
		return nil, model.MethodNotFound("unknown tool '%s'", call.Name)
	}
	args, err := tool.Schema.Validate(call.Arguments)
	if err != nil {
		return nil, maskAny(err)
	}
	// A handler that panics must surface as an internal error on this
	// call, not take down the process.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Errorf("tool '%s' panicked: %v", call.Name, r)
		}
	}()
	return tool.Handler(ctx, args)
}
