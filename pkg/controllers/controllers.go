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

// Package controllers implements the device behaviors exposed as
// tools: GPIO primitives, light control and pump control.
package controllers

import (
	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/sched"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// Dependencies holds the services used by the controllers.
type Dependencies struct {
	Log       zerolog.Logger
	HAL       hal.API
	Scheduler *sched.Scheduler
}

// Service owns the device behavior controllers.
type Service struct {
	gpio  *gpioController
	light *lightController
	pump  *pumpController
}

// NewService creates all controllers on top of the given HAL and
// scheduler.
func NewService(deps Dependencies) *Service {
	return &Service{
		gpio:  newGPIOController(deps.Log, deps.HAL),
		light: newLightController(deps.Log, deps.HAL),
		pump:  newPumpController(deps.Log, deps.HAL, deps.Scheduler),
	}
}

// Tools returns the tools of all controllers in their canonical order.
func (s *Service) Tools() []tools.Tool {
	var result []tools.Tool
	result = append(result, s.gpio.tools()...)
	result = append(result, s.light.tool())
	result = append(result, s.pump.tool())
	return result
}

// pinField is the pin argument shared by all tools.
func pinField() tools.Field {
	return tools.Field{
		Name:        "pin",
		Type:        tools.FieldInteger,
		Description: "GPIO pin number (0-40)",
		Required:    true,
		Min:         tools.Bound(0),
		Max:         tools.Bound(40),
	}
}

// onOff renders a pin value as an ON/OFF label.
func onOff(value int) string {
	if value == 1 {
		return "ON"
	}
	return "OFF"
}
