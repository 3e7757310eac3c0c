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

package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/sched"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// pumpController controls a pump attached to a pin, with an optional
// auto-stop after a given duration.
//
// All state transitions, including the auto-stop fired by the
// scheduler, run under the controller mutex. The auto-stop callback
// claims its scheduler generation under that mutex before writing, so
// a stop or a new start that got the mutex first has already
// invalidated the generation and the late fire does nothing.
type pumpController struct {
	log   zerolog.Logger
	hal   hal.API
	sched *sched.Scheduler
	mutex sync.Mutex
}

func newPumpController(log zerolog.Logger, api hal.API, scheduler *sched.Scheduler) *pumpController {
	return &pumpController{
		log:   log.With().Str("component", "pump").Logger(),
		hal:   api,
		sched: scheduler,
	}
}

func (c *pumpController) tool() tools.Tool {
	return tools.Tool{
		Name:        "control_pump",
		Description: "Control a pump: start it (optionally with an auto-stop duration), stop it, or query its status",
		Schema: tools.Schema{Fields: []tools.Field{
			pinField(),
			{
				Name:        "action",
				Type:        tools.FieldString,
				Description: "What to do with the pump",
				Required:    true,
				Enum:        []string{"start", "stop", "status"},
			},
			{
				Name:         "duration",
				Type:         tools.FieldNumber,
				Description:  "Run time in seconds; the pump stops automatically when it elapses",
				Min:          tools.Bound(0),
				ExclusiveMin: true,
			},
		}},
		Handler: c.handle,
	}
}

func (c *pumpController) handle(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	pin, _ := args.Int("pin")
	action, _ := args.String("action")
	pumpActionsTotal.WithLabelValues(action).Inc()

	switch action {
	case "start":
		duration, timed := args.Float("duration")
		return c.start(ctx, model.Pin(pin), duration, timed)
	case "stop":
		return c.stop(ctx, model.Pin(pin))
	case "status":
		return c.status(ctx, model.Pin(pin))
	default:
		return nil, model.InvalidArgument("argument 'action' must be one of: start, stop, status")
	}
}

// start turns the pump on. Any pending auto-stop is invalidated;
// with a duration a new auto-stop is armed for the full duration.
func (c *pumpController) start(ctx context.Context, pin model.Pin, duration float64, timed bool) (*model.ToolResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.hal.Setup(ctx, pin, model.DirectionOutput); err != nil {
		return nil, maskAny(err)
	}
	if err := c.hal.Write(ctx, pin, 1); err != nil {
		return nil, maskAny(err)
	}
	if !timed {
		c.sched.Cancel(pin)
		c.log.Debug().Int("pin", int(pin)).Msg("pump started")
		return model.TextResult("Pump on pin %d started", int(pin)), nil
	}
	delay := time.Duration(duration * float64(time.Second))
	c.sched.Schedule(pin, delay, c.autoStop)
	c.log.Debug().
		Int("pin", int(pin)).
		Dur("delay", delay).
		Msg("pump started with auto-stop")
	return model.TextResult("Pump on pin %d started (auto-stop in %g seconds)", int(pin), duration), nil
}

// stop turns the pump off and invalidates any pending auto-stop.
// Stopping a stopped pump is not an error.
func (c *pumpController) stop(ctx context.Context, pin model.Pin) (*model.ToolResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.hal.Setup(ctx, pin, model.DirectionOutput); err != nil {
		return nil, maskAny(err)
	}
	if err := c.hal.Write(ctx, pin, 0); err != nil {
		return nil, maskAny(err)
	}
	c.sched.Cancel(pin)
	c.log.Debug().Int("pin", int(pin)).Msg("pump stopped")
	return model.TextResult("Pump on pin %d stopped", int(pin)), nil
}

// status reports RUNNING or STOPPED. It does not reveal whether a
// running pump has an auto-stop pending.
func (c *pumpController) status(ctx context.Context, pin model.Pin) (*model.ToolResult, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.hal.Setup(ctx, pin, model.DirectionOutput); err != nil {
		return nil, maskAny(err)
	}
	value, err := c.hal.Read(ctx, pin)
	if err != nil {
		return nil, maskAny(err)
	}
	state := "STOPPED"
	if value == 1 {
		state = "RUNNING"
	}
	return model.TextResult("Pump on pin %d is %s", int(pin), state), nil
}

// autoStop runs on the scheduler's timer goroutine when a pump's
// run time elapses.
func (c *pumpController) autoStop(pin model.Pin, generation uint64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.sched.Claim(pin, generation) {
		return
	}
	if err := c.hal.Write(context.Background(), pin, 0); err != nil {
		autoStopFailuresTotal.Inc()
		c.log.Error().Err(err).Int("pin", int(pin)).Msg("pump auto-stop write failed")
		return
	}
	autoStopsTotal.Inc()
	c.log.Debug().Int("pin", int(pin)).Msg("pump auto-stopped")
}
