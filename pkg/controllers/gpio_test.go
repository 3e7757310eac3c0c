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
	"strings"
	"testing"

	"github.com/gardennet/GardenWorker/model"
)

// Fresh pins read low, including both ends of the pin range.
func TestSetupThenReadDefaultsLow(t *testing.T) {
	rig := newTestRig(t)

	rig.expectText(t, "gpio_setup_pin", `{"pin":0,"direction":"output"}`, "Pin 0 configured as OUTPUT")
	rig.expectText(t, "gpio_read_pin", `{"pin":0}`, "Pin 0 value: 0 (LOW)")

	rig.expectText(t, "gpio_setup_pin", `{"pin":40,"direction":"input"}`, "Pin 40 configured as INPUT")
	rig.expectText(t, "gpio_read_pin", `{"pin":40}`, "Pin 40 value: 0 (LOW)")
}

func TestPinRangeRejected(t *testing.T) {
	rig := newTestRig(t)

	err := rig.callErr(t, "gpio_setup_pin", `{"pin":41,"direction":"output"}`)
	if !model.IsInvalidArgument(err) {
		t.Errorf("pin 41: got %v, expected invalid argument", err)
	}
	if model.ErrorCode(err) != model.CodeInvalidParams {
		t.Errorf("pin 41: code = %d", model.ErrorCode(err))
	}
	err = rig.callErr(t, "gpio_read_pin", `{"pin":-1}`)
	if !model.IsInvalidArgument(err) {
		t.Errorf("pin -1: got %v, expected invalid argument", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "gpio_setup_pin", `{"pin":17,"direction":"output"}`)
	rig.expectText(t, "gpio_write_pin", `{"pin":17,"value":1}`, "Pin 17 set to 1 (HIGH)")
	rig.expectText(t, "gpio_read_pin", `{"pin":17}`, "Pin 17 value: 1 (HIGH)")
	rig.expectText(t, "gpio_write_pin", `{"pin":17,"value":0}`, "Pin 17 set to 0 (LOW)")
	rig.expectText(t, "gpio_read_pin", `{"pin":17}`, "Pin 17 value: 0 (LOW)")
}

// The raw primitives perform no implicit setup.
func TestPrimitivesRequireSetup(t *testing.T) {
	rig := newTestRig(t)

	err := rig.callErr(t, "gpio_read_pin", `{"pin":17}`)
	if !model.IsNotInitialized(err) {
		t.Errorf("read: got %v, expected not initialized", err)
	}
	if model.ErrorCode(err) != model.CodeInternalError {
		t.Errorf("read: code = %d", model.ErrorCode(err))
	}
	err = rig.callErr(t, "gpio_write_pin", `{"pin":17,"value":1}`)
	if !model.IsNotInitialized(err) {
		t.Errorf("write: got %v, expected not initialized", err)
	}
}

func TestWriteValueValidation(t *testing.T) {
	rig := newTestRig(t)
	rig.call(t, "gpio_setup_pin", `{"pin":17,"direction":"output"}`)

	err := rig.callErr(t, "gpio_write_pin", `{"pin":17,"value":2}`)
	if !model.IsInvalidArgument(err) || !strings.Contains(err.Error(), "'value'") {
		t.Errorf("value 2: got %v", err)
	}
	err = rig.callErr(t, "gpio_write_pin", `{"pin":17}`)
	if !model.IsInvalidArgument(err) || !strings.Contains(err.Error(), "'value'") {
		t.Errorf("missing value: got %v", err)
	}
}

func TestWriteToInputPinFailsHard(t *testing.T) {
	rig := newTestRig(t)
	rig.call(t, "gpio_setup_pin", `{"pin":4,"direction":"input"}`)

	err := rig.callErr(t, "gpio_write_pin", `{"pin":4,"value":1}`)
	if !model.IsInvalidDirection(err) {
		t.Errorf("got %v, expected invalid direction", err)
	}
	if model.ErrorCode(err) != model.CodeInternalError {
		t.Errorf("code = %d", model.ErrorCode(err))
	}
}

func TestListPins(t *testing.T) {
	rig := newTestRig(t)

	rig.expectText(t, "gpio_list_pins", `{}`, "No pins configured")

	rig.call(t, "gpio_setup_pin", `{"pin":27,"direction":"output"}`)
	rig.call(t, "gpio_setup_pin", `{"pin":4,"direction":"input"}`)
	rig.call(t, "gpio_write_pin", `{"pin":27,"value":1}`)

	expected := "GPIO pin states:\n" +
		"Pin 4: INPUT, value 0 (LOW)\n" +
		"Pin 27: OUTPUT, value 1 (HIGH)"
	rig.expectText(t, "gpio_list_pins", `{}`, expected)
}
