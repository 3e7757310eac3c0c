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
	"time"

	"github.com/gardennet/GardenWorker/model"
)

// waitForValue polls the pin until it reaches the wanted value or the
// deadline passes.
func waitForValue(t *testing.T, rig *testRig, pin model.Pin, want int, deadline time.Duration) {
	t.Helper()
	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if pinValue(t, rig, pin) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("pin %d did not reach %d within %s", int(pin), want, deadline)
}

func TestPumpStartStopStatus(t *testing.T) {
	rig := newTestRig(t)

	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is STOPPED")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"start"}`, "Pump on pin 19 started")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is RUNNING")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"stop"}`, "Pump on pin 19 stopped")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is STOPPED")
	// Stopping a stopped pump is allowed and reports stopped again.
	rig.expectText(t, "control_pump", `{"pin":19,"action":"stop"}`, "Pump on pin 19 stopped")
}

func TestPumpAutoStop(t *testing.T) {
	rig := newTestRig(t)

	rig.expectText(t, "control_pump", `{"pin":19,"action":"start","duration":0.2}`,
		"Pump on pin 19 started (auto-stop in 0.2 seconds)")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is RUNNING")

	waitForValue(t, rig, 19, 0, 2*time.Second)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is STOPPED")
	if _, pending := rig.scheduler.Pending(19); pending {
		t.Error("auto-stop still pending after firing")
	}
}

// A manual stop before the auto-stop fires cancels it; nothing flips
// the pin after the original mark.
func TestPumpManualStopPreemptsAutoStop(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":0.4}`)
	time.Sleep(50 * time.Millisecond)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"stop"}`, "Pump on pin 19 stopped")
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is STOPPED")
	if _, pending := rig.scheduler.Pending(19); pending {
		t.Error("auto-stop still pending after manual stop")
	}

	// Hold the pin through the original auto-stop mark.
	end := time.Now().Add(600 * time.Millisecond)
	for time.Now().Before(end) {
		if v := pinValue(t, rig, 19); v != 0 {
			t.Fatalf("pin flipped to %d after manual stop", v)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Starting again restarts the countdown; the old auto-stop must not
// fire at its original mark.
func TestPumpReArmShortensCountdown(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":5}`)
	time.Sleep(50 * time.Millisecond)
	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":0.2}`)

	// The second duration wins: stopped long before the first 5s mark.
	waitForValue(t, rig, 19, 0, 2*time.Second)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is STOPPED")
}

// An untimed start invalidates a pending auto-stop: the pump keeps
// running past the stale mark.
func TestPumpUntimedStartCancelsAutoStop(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":0.2}`)
	time.Sleep(50 * time.Millisecond)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"start"}`, "Pump on pin 19 started")
	if _, pending := rig.scheduler.Pending(19); pending {
		t.Error("stale auto-stop still pending after untimed start")
	}

	time.Sleep(400 * time.Millisecond)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is RUNNING")
	if v := pinValue(t, rig, 19); v != 1 {
		t.Errorf("pin value = %d, stale auto-stop fired", v)
	}
}

// A pump restarted after its auto-stop fired runs unaffected by the
// spent timer.
func TestPumpRestartAfterAutoStop(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":0.1}`)
	waitForValue(t, rig, 19, 0, 2*time.Second)

	rig.expectText(t, "control_pump", `{"pin":19,"action":"start"}`, "Pump on pin 19 started")
	time.Sleep(300 * time.Millisecond)
	rig.expectText(t, "control_pump", `{"pin":19,"action":"status"}`, "Pump on pin 19 is RUNNING")
}

// Status is deliberately coarse: a timed and an untimed run report
// the same text.
func TestPumpStatusDoesNotRevealTimer(t *testing.T) {
	rig := newTestRig(t)

	rig.call(t, "control_pump", `{"pin":19,"action":"start","duration":600}`)
	timed := rig.call(t, "control_pump", `{"pin":19,"action":"status"}`).Text()

	rig.call(t, "control_pump", `{"pin":21,"action":"start"}`)
	untimed := rig.call(t, "control_pump", `{"pin":21,"action":"status"}`).Text()

	if strings.Replace(timed, "19", "21", 1) != untimed {
		t.Errorf("status texts differ beyond the pin: %q vs %q", timed, untimed)
	}
}

func TestPumpDurationValidation(t *testing.T) {
	rig := newTestRig(t)

	err := rig.callErr(t, "control_pump", `{"pin":19,"action":"start","duration":0}`)
	if !model.IsInvalidArgument(err) || !strings.Contains(err.Error(), "'duration'") {
		t.Errorf("duration 0: got %v", err)
	}
	err = rig.callErr(t, "control_pump", `{"pin":19,"action":"start","duration":-3}`)
	if !model.IsInvalidArgument(err) || !strings.Contains(err.Error(), "'duration'") {
		t.Errorf("duration -3: got %v", err)
	}
	if _, found := rig.hal.StateOf(19); found {
		t.Error("pin was touched despite the argument error")
	}
}

// Fractional durations are accepted.
func TestPumpFractionalDuration(t *testing.T) {
	rig := newTestRig(t)

	rig.expectText(t, "control_pump", `{"pin":19,"action":"start","duration":0.5}`,
		"Pump on pin 19 started (auto-stop in 0.5 seconds)")
	rig.call(t, "control_pump", `{"pin":19,"action":"stop"}`)
}
