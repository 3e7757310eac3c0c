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
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/hal"
	"github.com/gardennet/GardenWorker/pkg/sched"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// testRig wires all controllers to a simulated HAL behind a real
// dispatcher, the way calls arrive in production.
type testRig struct {
	dispatcher *tools.Dispatcher
	hal        *hal.Simulated
	scheduler  *sched.Scheduler
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	log := zerolog.Nop()
	simulated := hal.NewSimulated(log, nil)
	scheduler := sched.New(log)
	t.Cleanup(func() { scheduler.Close() })

	dispatcher := tools.New(tools.Config{}, tools.Dependencies{Log: log})
	service := NewService(Dependencies{
		Log:       log,
		HAL:       simulated,
		Scheduler: scheduler,
	})
	dispatcher.MustRegister(service.Tools()...)
	return &testRig{
		dispatcher: dispatcher,
		hal:        simulated,
		scheduler:  scheduler,
	}
}

// call dispatches a tool call and fails the test on a hard failure.
func (r *testRig) call(t *testing.T, name, rawArgs string) *model.ToolResult {
	t.Helper()
	result, err := r.dispatcher.Dispatch(context.Background(), model.ToolCall{
		Name:      name,
		Arguments: json.RawMessage(rawArgs),
	})
	if err != nil {
		t.Fatalf("%s(%s) failed hard: %v", name, rawArgs, err)
	}
	return result
}

// callErr dispatches a tool call and fails the test unless it fails
// hard.
func (r *testRig) callErr(t *testing.T, name, rawArgs string) error {
	t.Helper()
	result, err := r.dispatcher.Dispatch(context.Background(), model.ToolCall{
		Name:      name,
		Arguments: json.RawMessage(rawArgs),
	})
	if err == nil {
		t.Fatalf("%s(%s) did not fail, result: %q", name, rawArgs, result.Text())
	}
	return err
}

// expectText dispatches a call and compares the result text.
func (r *testRig) expectText(t *testing.T, name, rawArgs, expected string) {
	t.Helper()
	result := r.call(t, name, rawArgs)
	if result.IsError {
		t.Errorf("%s(%s) reported a soft failure: %q", name, rawArgs, result.Text())
	}
	if got := result.Text(); got != expected {
		t.Errorf("%s(%s) = %q, expected %q", name, rawArgs, got, expected)
	}
}

func TestToolsCanonicalOrder(t *testing.T) {
	rig := newTestRig(t)
	expected := []string{
		"gpio_read_pin",
		"gpio_write_pin",
		"gpio_setup_pin",
		"gpio_list_pins",
		"control_light",
		"control_pump",
	}
	registered := rig.dispatcher.Tools()
	if len(registered) != len(expected) {
		t.Fatalf("got %d tools, expected %d", len(registered), len(expected))
	}
	for i, tool := range registered {
		if tool.Name != expected[i] {
			t.Errorf("position %d: got %q, expected %q", i, tool.Name, expected[i])
		}
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
}
