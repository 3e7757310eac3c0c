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

package model

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// DeviceKind indicates what kind of equipment is attached to a pin.
type DeviceKind string

const (
	// DeviceKindLight is a light (relay or LED driver).
	DeviceKindLight DeviceKind = "light"
	// DeviceKindPump is a pump (relay driven).
	DeviceKindPump DeviceKind = "pump"
)

// Validate the device kind.
func (k DeviceKind) Validate() error {
	switch k {
	case DeviceKindLight, DeviceKindPump:
		return nil
	default:
		return errors.Wrapf(ValidationError, "unknown device kind '%s'", string(k))
	}
}

// Device binds a named piece of equipment to a GPIO pin.
type Device struct {
	// Name of the device, unique within a device map.
	Name string `json:"name"`
	// Kind of equipment attached to the pin.
	Kind DeviceKind `json:"kind"`
	// Pin the device is wired to.
	Pin Pin `json:"pin"`
	// Optional human readable description.
	Description string `json:"description,omitempty"`
}

// Validate the device, returning nil on ok,
// or an error upon validation issues.
func (d Device) Validate() error {
	if d.Name == "" {
		return errors.Wrap(ValidationError, "device name must not be empty")
	}
	if err := d.Kind.Validate(); err != nil {
		return maskAny(err)
	}
	if err := d.Pin.Validate(); err != nil {
		return errors.Wrapf(ValidationError, "device '%s': %s", d.Name, err.Error())
	}
	return nil
}

// DeviceMap holds the static device configuration of a single worker.
type DeviceMap struct {
	// List of devices attached to the worker.
	Devices []Device `json:"devices,omitempty"`
}

// DeviceByName returns the device with given name.
// Return false if not found.
func (m DeviceMap) DeviceByName(name string) (Device, bool) {
	for _, d := range m.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return Device{}, false
}

// DevicesByKind returns all devices of the given kind,
// in the order they are configured.
func (m DeviceMap) DevicesByKind(kind DeviceKind) []Device {
	var result []Device
	for _, d := range m.Devices {
		if d.Kind == kind {
			result = append(result, d)
		}
	}
	return result
}

// Validate the device map, returning nil on ok,
// or an error upon validation issues.
func (m DeviceMap) Validate() error {
	names := make(map[string]struct{})
	pins := make(map[Pin]string)
	for _, d := range m.Devices {
		if err := d.Validate(); err != nil {
			return maskAny(err)
		}
		if _, found := names[d.Name]; found {
			return errors.Wrapf(ValidationError, "duplicate device name '%s'", d.Name)
		}
		names[d.Name] = struct{}{}
		if other, found := pins[d.Pin]; found {
			return errors.Wrapf(ValidationError, "pin %d claimed by both '%s' and '%s'", int(d.Pin), other, d.Name)
		}
		pins[d.Pin] = d.Name
	}
	return nil
}

// LoadDeviceMap reads and validates a device map from a JSON file at
// the given path.
func LoadDeviceMap(path string) (DeviceMap, error) {
	var m DeviceMap
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, maskAny(err)
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, errors.Wrapf(ValidationError, "cannot parse device map '%s': %s", path, err.Error())
	}
	if err := m.Validate(); err != nil {
		return m, maskAny(err)
	}
	return m, nil
}
