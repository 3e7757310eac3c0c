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
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// gpioController exposes the raw pin primitives. Each operation is a
// single HAL call; pins must be set up before they can be used.
type gpioController struct {
	log zerolog.Logger
	hal hal.API
}

func newGPIOController(log zerolog.Logger, api hal.API) *gpioController {
	return &gpioController{
		log: log.With().Str("component", "gpio").Logger(),
		hal: api,
	}
}

func (c *gpioController) tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "gpio_read_pin",
			Description: "Read the current value of a GPIO pin",
			Schema:      tools.Schema{Fields: []tools.Field{pinField()}},
			Handler:     c.readPin,
		},
		{
			Name:        "gpio_write_pin",
			Description: "Write a value to a GPIO pin",
			Schema: tools.Schema{Fields: []tools.Field{
				pinField(),
				{
					Name:        "value",
					Type:        tools.FieldInteger,
					Description: "Value to write (0 or 1)",
					Required:    true,
					Min:         tools.Bound(0),
					Max:         tools.Bound(1),
				},
			}},
			Handler: c.writePin,
		},
		{
			Name:        "gpio_setup_pin",
			Description: "Configure a GPIO pin as input or output",
			Schema: tools.Schema{Fields: []tools.Field{
				pinField(),
				{
					Name:        "direction",
					Type:        tools.FieldString,
					Description: "Pin direction",
					Required:    true,
					Enum:        []string{"input", "output"},
				},
			}},
			Handler: c.setupPin,
		},
		{
			Name:        "gpio_list_pins",
			Description: "List all configured GPIO pins and their states",
			Schema:      tools.Schema{},
			Handler:     c.listPins,
		},
	}
}

func (c *gpioController) readPin(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	pin, _ := args.Int("pin")
	value, err := c.hal.Read(ctx, model.Pin(pin))
	if err != nil {
		return nil, maskAny(err)
	}
	return model.TextResult("Pin %d value: %d (%s)", pin, value, model.LevelLabel(value)), nil
}

func (c *gpioController) writePin(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	pin, _ := args.Int("pin")
	value, _ := args.Int("value")
	if err := c.hal.Write(ctx, model.Pin(pin), value); err != nil {
		return nil, maskAny(err)
	}
	return model.TextResult("Pin %d set to %d (%s)", pin, value, model.LevelLabel(value)), nil
}

func (c *gpioController) setupPin(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	pin, _ := args.Int("pin")
	direction, _ := args.String("direction")
	if err := c.hal.Setup(ctx, model.Pin(pin), model.Direction(direction)); err != nil {
		return nil, maskAny(err)
	}
	return model.TextResult("Pin %d configured as %s", pin, model.Direction(direction).Label()), nil
}

func (c *gpioController) listPins(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	snapshot := c.hal.Snapshot()
	if len(snapshot) == 0 {
		return model.TextResult("No pins configured"), nil
	}
	var b strings.Builder
	b.WriteString("GPIO pin states:")
	for _, status := range snapshot {
		fmt.Fprintf(&b, "\nPin %d: %s, value %d (%s)",
			int(status.Pin),
			status.State.Direction.Label(),
			status.State.Value,
			model.LevelLabel(status.State.Value))
	}
	return model.TextResult("%s", b.String()), nil
}
