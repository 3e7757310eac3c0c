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

// Package sched runs delayed operations on pins, at most one pending
// operation per pin. Every operation carries a generation number;
// scheduling a pin again or canceling it invalidates the previous
// generation, so a timer that fires late can detect it has been
// superseded and must not act.
package sched

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
)

// Callback is invoked when a scheduled operation comes due.
// The callback must call Claim with the given generation and only act
// when the claim succeeds.
type Callback func(pin model.Pin, generation uint64)

// Scheduler runs at most one pending delayed operation per pin.
type Scheduler struct {
	log            zerolog.Logger
	mutex          sync.Mutex
	ops            map[model.Pin]*operation
	lastGeneration uint64
	closed         bool
}

type operation struct {
	generation uint64
	timer      *time.Timer
	due        time.Time
}

// New creates an empty scheduler.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log: log.With().Str("component", "sched").Logger(),
		ops: make(map[model.Pin]*operation),
	}
}

// Schedule arranges for the given callback to run after the given
// delay. A pending operation on the same pin is stopped and replaced.
// Returns the generation of the new operation, or 0 when the
// scheduler is closed.
func (s *Scheduler) Schedule(pin model.Pin, delay time.Duration, cb Callback) uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return 0
	}
	if prev, found := s.ops[pin]; found {
		prev.timer.Stop()
		delete(s.ops, pin)
		opsSupersededTotal.Inc()
	}
	s.lastGeneration++
	generation := s.lastGeneration
	s.ops[pin] = &operation{
		generation: generation,
		timer: time.AfterFunc(delay, func() {
			cb(pin, generation)
		}),
		due: time.Now().Add(delay),
	}
	opsScheduledTotal.Inc()
	opsPendingGauge.Set(float64(len(s.ops)))
	s.log.Debug().
		Int("pin", int(pin)).
		Uint64("generation", generation).
		Dur("delay", delay).
		Msg("operation scheduled")
	return generation
}

// Claim removes the pending operation of the given pin if it still
// carries the given generation. A true result means the caller owns
// the operation and must carry it out; false means the operation was
// canceled or replaced in the meantime.
func (s *Scheduler) Claim(pin model.Pin, generation uint64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	op, found := s.ops[pin]
	if !found || op.generation != generation {
		staleFiresTotal.Inc()
		return false
	}
	delete(s.ops, pin)
	opsFiredTotal.Inc()
	opsPendingGauge.Set(float64(len(s.ops)))
	return true
}

// Cancel stops the pending operation of the given pin.
// Returns true if there was one.
func (s *Scheduler) Cancel(pin model.Pin) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	op, found := s.ops[pin]
	if !found {
		return false
	}
	op.timer.Stop()
	delete(s.ops, pin)
	opsCanceledTotal.Inc()
	opsPendingGauge.Set(float64(len(s.ops)))
	s.log.Debug().
		Int("pin", int(pin)).
		Uint64("generation", op.generation).
		Msg("operation canceled")
	return true
}

// Pending returns the due time of the pin's pending operation.
// Returns false if there is none.
func (s *Scheduler) Pending(pin model.Pin) (time.Time, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if op, found := s.ops[pin]; found {
		return op.due, true
	}
	return time.Time{}, false
}

// Close stops all pending operations. The scheduler accepts no new
// operations afterwards.
func (s *Scheduler) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for pin, op := range s.ops {
		op.timer.Stop()
		delete(s.ops, pin)
	}
	s.closed = true
	opsPendingGauge.Set(0)
	return nil
}
