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
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/events"
)

func TestSimulatedSetupValidation(t *testing.T) {
	ctx := context.Background()
	h := NewSimulated(zerolog.Nop(), nil)

	for _, pin := range []model.Pin{0, 40} {
		if err := h.Setup(ctx, pin, model.DirectionOutput); err != nil {
			t.Errorf("Setup(%d) failed: %v", int(pin), err)
		}
	}
	for _, pin := range []model.Pin{-1, 41} {
		err := h.Setup(ctx, pin, model.DirectionOutput)
		if !model.IsInvalidArgument(err) {
			t.Errorf("Setup(%d) returned %v, expected invalid argument", int(pin), err)
		}
	}
	if err := h.Setup(ctx, 17, "up"); !model.IsInvalidArgument(err) {
		t.Errorf("Setup with bad direction returned %v, expected invalid argument", err)
	}
}

func TestSimulatedReadWrite(t *testing.T) {
	ctx := context.Background()
	h := NewSimulated(zerolog.Nop(), nil)

	if err := h.Write(ctx, 17, 1); !model.IsNotInitialized(err) {
		t.Errorf("Write before setup returned %v, expected not initialized", err)
	}
	if _, err := h.Read(ctx, 17); !model.IsNotInitialized(err) {
		t.Errorf("Read before setup returned %v, expected not initialized", err)
	}

	if err := h.Setup(ctx, 17, model.DirectionOutput); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if v, err := h.Read(ctx, 17); err != nil || v != 0 {
		t.Errorf("Read after setup returned (%d, %v), expected (0, nil)", v, err)
	}
	if err := h.Write(ctx, 17, 1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if v, err := h.Read(ctx, 17); err != nil || v != 1 {
		t.Errorf("Read after write returned (%d, %v), expected (1, nil)", v, err)
	}
	if err := h.Write(ctx, 17, 2); !model.IsInvalidArgument(err) {
		t.Errorf("Write(2) returned %v, expected invalid argument", err)
	}

	if err := h.Setup(ctx, 4, model.DirectionInput); err != nil {
		t.Fatalf("Setup input failed: %v", err)
	}
	if err := h.Write(ctx, 4, 1); !model.IsInvalidDirection(err) {
		t.Errorf("Write to input pin returned %v, expected invalid direction", err)
	}
	if err := h.SetInputLevel(4, 1); err != nil {
		t.Fatalf("SetInputLevel failed: %v", err)
	}
	if v, err := h.Read(ctx, 4); err != nil || v != 1 {
		t.Errorf("Read input returned (%d, %v), expected (1, nil)", v, err)
	}
}

func TestSimulatedReSetup(t *testing.T) {
	ctx := context.Background()
	h := NewSimulated(zerolog.Nop(), nil)

	if err := h.Setup(ctx, 17, model.DirectionOutput); err != nil {
		t.Fatal(err)
	}
	if err := h.Write(ctx, 17, 1); err != nil {
		t.Fatal(err)
	}
	// Same direction keeps the value.
	if err := h.Setup(ctx, 17, model.DirectionOutput); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.Read(ctx, 17); v != 1 {
		t.Errorf("value lost on re-setup with same direction, got %d", v)
	}
	// Direction change resets the value.
	if err := h.Setup(ctx, 17, model.DirectionInput); err != nil {
		t.Fatal(err)
	}
	if v, _ := h.Read(ctx, 17); v != 0 {
		t.Errorf("value not reset on direction change, got %d", v)
	}
	state, found := h.StateOf(17)
	if !found || state.Direction != model.DirectionInput {
		t.Errorf("unexpected state after direction change: %+v found=%v", state, found)
	}
}

func TestSimulatedSnapshotOrder(t *testing.T) {
	ctx := context.Background()
	h := NewSimulated(zerolog.Nop(), nil)

	for _, pin := range []model.Pin{21, 3, 40, 0} {
		if err := h.Setup(ctx, pin, model.DirectionOutput); err != nil {
			t.Fatal(err)
		}
	}
	snapshot := h.Snapshot()
	expected := []model.Pin{0, 3, 21, 40}
	if len(snapshot) != len(expected) {
		t.Fatalf("got %d pins, expected %d", len(snapshot), len(expected))
	}
	for i, status := range snapshot {
		if status.Pin != expected[i] {
			t.Errorf("position %d: got pin %d, expected %d", i, int(status.Pin), int(expected[i]))
		}
	}
}

func TestSetInputLevelRules(t *testing.T) {
	ctx := context.Background()
	h := NewSimulated(zerolog.Nop(), nil)

	if err := h.SetInputLevel(4, 1); !model.IsNotInitialized(err) {
		t.Errorf("SetInputLevel on fresh pin returned %v, expected not initialized", err)
	}
	if err := h.Setup(ctx, 4, model.DirectionOutput); err != nil {
		t.Fatal(err)
	}
	if err := h.SetInputLevel(4, 1); !model.IsInvalidDirection(err) {
		t.Errorf("SetInputLevel on output pin returned %v, expected invalid direction", err)
	}
}

func recvPinEvent(t *testing.T, ch <-chan events.PinEvent, timeout time.Duration) events.PinEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(timeout):
		t.Fatal("timeout waiting for pin event")
		return events.PinEvent{}
	}
}

func TestSimulatedPublishesPinEvents(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(zerolog.Nop())
	h := NewSimulated(zerolog.Nop(), bus)

	ch := make(chan events.PinEvent, 8)
	cancel := bus.RegisterPinEventReceiver(func(e events.PinEvent) error {
		ch <- e
		return nil
	})
	defer cancel()

	if err := h.Setup(ctx, 17, model.DirectionOutput); err != nil {
		t.Fatal(err)
	}
	e := recvPinEvent(t, ch, time.Second)
	if e.Pin != 17 || e.Direction != model.DirectionOutput || e.Value != 0 {
		t.Errorf("unexpected setup event: %+v", e)
	}

	if err := h.Write(ctx, 17, 1); err != nil {
		t.Fatal(err)
	}
	e = recvPinEvent(t, ch, time.Second)
	if e.Pin != 17 || e.Value != 1 {
		t.Errorf("unexpected write event: %+v", e)
	}

	// Writing the same value again must not announce anything.
	if err := h.Write(ctx, 17, 1); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-ch:
		t.Errorf("unexpected event for unchanged value: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}
