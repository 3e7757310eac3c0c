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
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/gardennet/GardenWorker/model"
)

// periphDriver drives lines through the periph.io host drivers.
type periphDriver struct{}

func newPeriphDriver() LineDriver {
	return &periphDriver{}
}

func (d *periphDriver) Open() error {
	if _, err := host.Init(); err != nil {
		return errors.Wrap(err, "Init host failed")
	}
	return nil
}

func (d *periphDriver) Claim(pin model.Pin, direction model.Direction) (Line, error) {
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", int(pin)))
	if p == nil {
		return nil, errors.Errorf("no GPIO%d on this host", int(pin))
	}
	if direction == model.DirectionInput {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return nil, errors.Wrapf(err, "In[%d] failed", int(pin))
		}
	} else {
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.Wrapf(err, "Out[%d] failed", int(pin))
		}
	}
	return periphLine{pin: p}, nil
}

func (d *periphDriver) Close() error {
	return nil
}

type periphLine struct {
	pin gpio.PinIO
}

func (l periphLine) Set(value int) error {
	level := gpio.Low
	if value == 1 {
		level = gpio.High
	}
	if err := l.pin.Out(level); err != nil {
		return errors.Wrap(err, "Out failed")
	}
	return nil
}

func (l periphLine) Get() (int, error) {
	if l.pin.Read() == gpio.High {
		return 1, nil
	}
	return 0, nil
}
