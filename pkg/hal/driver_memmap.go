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
	"github.com/pkg/errors"
	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/gardennet/GardenWorker/model"
)

// memmapDriver drives lines through the BCM283x register file mapped
// from /dev/gpiomem. It needs no per-line bookkeeping.
type memmapDriver struct{}

func newMemmapDriver() LineDriver {
	return &memmapDriver{}
}

func (d *memmapDriver) Open() error {
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "Open /dev/gpiomem failed")
	}
	return nil
}

func (d *memmapDriver) Claim(pin model.Pin, direction model.Direction) (Line, error) {
	p := rpio.Pin(pin)
	if direction == model.DirectionInput {
		p.Input()
	} else {
		p.Output()
		p.Low()
	}
	return memmapLine{pin: p}, nil
}

func (d *memmapDriver) Close() error {
	if err := rpio.Close(); err != nil {
		return errors.Wrap(err, "Close /dev/gpiomem failed")
	}
	return nil
}

type memmapLine struct {
	pin rpio.Pin
}

func (l memmapLine) Set(value int) error {
	if value == 1 {
		l.pin.High()
	} else {
		l.pin.Low()
	}
	return nil
}

func (l memmapLine) Get() (int, error) {
	if l.pin.Read() == rpio.High {
		return 1, nil
	}
	return 0, nil
}
