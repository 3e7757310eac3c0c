package hal

import (
	"github.com/pkg/errors"

	"github.com/gardennet/GardenWorker/model"
)

var (
	maskAny = errors.WithStack
)

// Error construction is shared between implementations so real and
// simulated runs fail with identical messages.

func errNotConfigured(pin model.Pin) error {
	return model.NotInitialized("pin %d has not been set up", int(pin))
}

func errNotOutput(pin model.Pin) error {
	return model.InvalidDirection("pin %d is set up as input, cannot write", int(pin))
}

func checkValue(value int) error {
	if value != 0 && value != 1 {
		return model.InvalidArgument("value must be 0 or 1, got %d", value)
	}
	return nil
}
