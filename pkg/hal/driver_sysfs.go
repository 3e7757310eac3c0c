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
	"github.com/ecc1/gpio"
	"github.com/pkg/errors"

	"github.com/gardennet/GardenWorker/model"
)

// sysfsDriver drives lines through the kernel sysfs GPIO interface,
// exporting one pin per claimed line.
type sysfsDriver struct{}

func newSysfsDriver() LineDriver {
	return &sysfsDriver{}
}

func (d *sysfsDriver) Open() error {
	return nil
}

func (d *sysfsDriver) Claim(pin model.Pin, direction model.Direction) (Line, error) {
	activeLow := false
	if direction == model.DirectionInput {
		p, err := gpio.Input(int(pin), activeLow)
		if err != nil {
			return nil, errors.Wrapf(err, "Input[%d] failed", int(pin))
		}
		return &sysfsLine{in: p}, nil
	}
	initialValue := false
	p, err := gpio.Output(int(pin), activeLow, initialValue)
	if err != nil {
		return nil, errors.Wrapf(err, "Output[%d] failed", int(pin))
	}
	return &sysfsLine{out: p}, nil
}

func (d *sysfsDriver) Close() error {
	return nil
}

type sysfsLine struct {
	in    gpio.InputPin
	out   gpio.OutputPin
	level int
}

func (l *sysfsLine) Set(value int) error {
	if l.out == nil {
		return errors.New("line is claimed as input")
	}
	if err := l.out.Write(value == 1); err != nil {
		return errors.Wrap(err, "Write failed")
	}
	l.level = value
	return nil
}

func (l *sysfsLine) Get() (int, error) {
	if l.in == nil {
		return l.level, nil
	}
	high, err := l.in.Read()
	if err != nil {
		return 0, errors.Wrap(err, "Read failed")
	}
	if high {
		return 1, nil
	}
	return 0, nil
}
