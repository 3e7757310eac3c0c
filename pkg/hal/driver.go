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
	"github.com/gardennet/GardenWorker/model"
)

// DriverName selects one of the supported line driver implementations.
type DriverName string

const (
	// DriverSysfs drives lines through the kernel sysfs interface.
	DriverSysfs DriverName = "sysfs"
	// DriverMemmap drives lines through /dev/gpiomem registers.
	DriverMemmap DriverName = "memmap"
	// DriverPeriph drives lines through the periph.io host drivers.
	DriverPeriph DriverName = "periph"
)

// Validate the driver name.
func (n DriverName) Validate() error {
	switch n {
	case DriverSysfs, DriverMemmap, DriverPeriph:
		return nil
	default:
		return model.InvalidArgument("unknown line driver '%s'", string(n))
	}
}

// LineDriver claims and drives physical GPIO lines.
type LineDriver interface {
	// Open prepares the driver for use.
	Open() error
	// Claim configures the line of the given pin with the given
	// direction. Output lines are driven low on claim.
	Claim(pin model.Pin, direction model.Direction) (Line, error)
	// Close releases the driver and all claimed lines.
	Close() error
}

// Line is a single claimed GPIO line.
type Line interface {
	// Set drives the line to the given level (0 or 1).
	Set(value int) error
	// Get samples the current level of the line.
	Get() (int, error)
}

// NewLineDriver creates the line driver with the given name.
func NewLineDriver(name DriverName) (LineDriver, error) {
	switch name {
	case DriverSysfs, "":
		return newSysfsDriver(), nil
	case DriverMemmap:
		return newMemmapDriver(), nil
	case DriverPeriph:
		return newPeriphDriver(), nil
	default:
		return nil, model.InvalidArgument("unknown line driver '%s'", string(name))
	}
}
