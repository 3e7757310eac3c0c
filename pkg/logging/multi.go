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

package logging

import (
	"io"
	"sync"
)

// MultiWriter fans log output out to a set of writers.
// Outputs can be added while logging is already running.
type MultiWriter struct {
	mutex   sync.Mutex
	writers []io.Writer
}

// NewMultiWriter creates a new output for logs.
func NewMultiWriter(writers ...io.Writer) *MultiWriter {
	return &MultiWriter{
		writers: writers,
	}
}

// Add registers an extra output.
func (l *MultiWriter) Add(w io.Writer) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.writers = append(l.writers, w)
}

// Write sends the given line to all outputs.
// Failing outputs are ignored, logging must never take the process
// down.
func (l *MultiWriter) Write(p []byte) (int, error) {
	l.mutex.Lock()
	writers := l.writers
	l.mutex.Unlock()
	for _, w := range writers {
		w.Write(p)
	}
	return len(p), nil
}
