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

package server

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"
)

// Maximum size of a single request line on the stdio transport.
const maxLineSize = 1024 * 1024

// Stdio serves the JSON-RPC endpoint over a pair of line oriented
// streams. Every input line holds one message, every response is
// written as one line. This is the transport MCP clients use when
// they spawn the server as a child process.
type Stdio struct {
	log      zerolog.Logger
	endpoint *Endpoint
	in       io.Reader
	out      io.Writer
}

// NewStdio creates a stdio transport around the given streams.
func NewStdio(log zerolog.Logger, endpoint *Endpoint, in io.Reader, out io.Writer) *Stdio {
	return &Stdio{
		log:      log.With().Str("component", "stdio").Logger(),
		endpoint: endpoint,
		in:       in,
		out:      out,
	}
}

// Run reads messages until the input closes or the context is
// canceled.
func (s *Stdio) Run(ctx context.Context) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), bytes.TrimSpace(scanner.Bytes())...)
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.log.Debug().Msg("Serving stdio")
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return maskAny(err)
				default:
					return nil
				}
			}
			resp := s.endpoint.Handle(ctx, line)
			if resp == nil {
				continue
			}
			resp = append(resp, '\n')
			if _, err := s.out.Write(resp); err != nil {
				return maskAny(err)
			}
		case <-ctx.Done():
			s.log.Debug().Msg("Done serving stdio")
			return nil
		}
	}
}
