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

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// dimThreshold is the brightness above which a dimmed light is driven
// ON. There is no PWM; dimming is a plain on/off decision and 50 maps
// to OFF.
const dimThreshold = 50

// lightController controls a light attached to a pin. The pin is
// registered as output on first use.
type lightController struct {
	log zerolog.Logger
	hal hal.API
}

func newLightController(log zerolog.Logger, api hal.API) *lightController {
	return &lightController{
		log: log.With().Str("component", "light").Logger(),
		hal: api,
	}
}

func (c *lightController) tool() tools.Tool {
	return tools.Tool{
		Name:        "control_light",
		Description: "Control a light: turn it on or off, toggle it, or dim it",
		Schema: tools.Schema{Fields: []tools.Field{
			pinField(),
			{
				Name:        "action",
				Type:        tools.FieldString,
				Description: "What to do with the light",
				Required:    true,
				Enum:        []string{"on", "off", "toggle", "dim"},
			},
			{
				Name:        "brightness",
				Type:        tools.FieldNumber,
				Description: "Brightness percentage for dimming (0-100)",
				Min:         tools.Bound(0),
				Max:         tools.Bound(100),
			},
		}},
		Handler: c.handle,
	}
}

func (c *lightController) handle(ctx context.Context, args tools.Arguments) (*model.ToolResult, error) {
	pin, _ := args.Int("pin")
	action, _ := args.String("action")
	lightActionsTotal.WithLabelValues(action).Inc()

	// Soft failures must be detected before the pin is touched.
	brightness, hasBrightness := args.Float("brightness")
	if action == "dim" && !hasBrightness {
		return model.ErrorResult("Brightness value required for dimming"), nil
	}
	if err := c.hal.Setup(ctx, model.Pin(pin), model.DirectionOutput); err != nil {
		return nil, maskAny(err)
	}
	switch action {
	case "on":
		if err := c.hal.Write(ctx, model.Pin(pin), 1); err != nil {
			return nil, maskAny(err)
		}
		return model.TextResult("Light on pin %d turned ON", pin), nil
	case "off":
		if err := c.hal.Write(ctx, model.Pin(pin), 0); err != nil {
			return nil, maskAny(err)
		}
		return model.TextResult("Light on pin %d turned OFF", pin), nil
	case "toggle":
		value, err := c.hal.Read(ctx, model.Pin(pin))
		if err != nil {
			return nil, maskAny(err)
		}
		next := 1 - value
		if err := c.hal.Write(ctx, model.Pin(pin), next); err != nil {
			return nil, maskAny(err)
		}
		return model.TextResult("Light on pin %d toggled to %s", pin, onOff(next)), nil
	case "dim":
		value := 0
		if brightness > dimThreshold {
			value = 1
		}
		if err := c.hal.Write(ctx, model.Pin(pin), value); err != nil {
			return nil, maskAny(err)
		}
		return model.TextResult("Light on pin %d dimmed to %g%% (%s)", pin, brightness, onOff(value)), nil
	default:
		return nil, model.InvalidArgument("argument 'action' must be one of: on, off, toggle, dim")
	}
}
