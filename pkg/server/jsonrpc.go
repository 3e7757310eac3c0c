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
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gardennet/GardenWorker/model"
	"github.com/gardennet/GardenWorker/pkg/tools"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// Request is a single incoming JSON-RPC 2.0 message.
// A request without an ID is a notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification returns true when the request carries no ID.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a single outgoing JSON-RPC 2.0 message.
// Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// ErrorObject describes a failed JSON-RPC request.
type ErrorObject struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ServerInfo identifies this server to MCP clients.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Endpoint decodes JSON-RPC 2.0 messages and routes them to the tool
// dispatcher. It is transport independent; HTTP, stdio and MQTT all
// feed raw messages into the same endpoint.
type Endpoint struct {
	log        zerolog.Logger
	dispatcher *tools.Dispatcher
	info       ServerInfo
}

// NewEndpoint creates a JSON-RPC endpoint around the given dispatcher.
func NewEndpoint(log zerolog.Logger, dispatcher *tools.Dispatcher, info ServerInfo) *Endpoint {
	return &Endpoint{
		log:        log.With().Str("component", "rpc").Logger(),
		dispatcher: dispatcher,
		info:       info,
	}
}

// Handle processes a single raw JSON-RPC message and returns the
// encoded response. It returns nil when no response must be sent.
func (e *Endpoint) Handle(ctx context.Context, msg []byte) []byte {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		e.log.Warn().Err(err).Msg("failed to decode request")
		return e.encode(errorResponse(nil, model.CodeParseError, "Parse error"))
	}
	requestsTotal.WithLabelValues(req.Method).Inc()
	resp := e.handleRequest(ctx, req)
	if req.IsNotification() {
		return nil
	}
	return e.encode(resp)
}

func (e *Endpoint) handleRequest(ctx context.Context, req Request) Response {
	if req.JSONRPC != "2.0" {
		return errorResponse(req.ID, model.CodeInvalidRequest, "Invalid JSON-RPC version. Expected '2.0'")
	}
	if strings.HasPrefix(req.Method, "notifications/") {
		// MCP clients announce lifecycle events this way.
		// There is nothing to do with them.
		return successResponse(req.ID, struct{}{})
	}
	switch req.Method {
	case "initialize":
		return successResponse(req.ID, e.initializeResult())
	case "tools/list":
		return successResponse(req.ID, toolsListResult{Tools: e.ToolDescriptors()})
	case "tools/call":
		return e.handleToolsCall(ctx, req)
	case "ping":
		return successResponse(req.ID, struct{}{})
	default:
		return errorResponse(req.ID, model.CodeMethodNotFound, "Method '"+req.Method+"' not found")
	}
}

func (e *Endpoint) handleToolsCall(ctx context.Context, req Request) Response {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil {
		return errorResponse(req.ID, model.CodeInvalidParams, "Invalid parameters for tools/call")
	}
	if params.Name == "" {
		return errorResponse(req.ID, model.CodeInvalidParams, "Tool name must be a string")
	}
	result, err := e.dispatcher.Dispatch(ctx, model.ToolCall{
		Name:      params.Name,
		Arguments: params.Arguments,
	})
	if err != nil {
		return errorResponse(req.ID, model.ErrorCode(err), err.Error())
	}
	return successResponse(req.ID, result)
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

type capabilities struct {
	Tools struct{} `json:"tools"`
}

func (e *Endpoint) initializeResult() initializeResult {
	return initializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      e.info,
	}
}

type toolsListResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// ToolDescriptor is the wire representation of a registered tool.
type ToolDescriptor struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema tools.Schema `json:"inputSchema"`
}

// ToolDescriptors lists all registered tools in registration order.
func (e *Endpoint) ToolDescriptors() []ToolDescriptor {
	all := e.dispatcher.Tools()
	result := make([]ToolDescriptor, 0, len(all))
	for _, t := range all {
		result = append(result, ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Schema,
		})
	}
	return result
}

func successResponse(id json.RawMessage, result interface{}) Response {
	return Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
}

func errorResponse(id json.RawMessage, code int, message string) Response {
	requestErrorsTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	return Response{
		JSONRPC: "2.0",
		Error:   &ErrorObject{Code: code, Message: message},
		ID:      id,
	}
}

func (e *Endpoint) encode(resp Response) []byte {
	encoded, err := json.Marshal(resp)
	if err != nil {
		e.log.Error().Err(err).Msg("failed to encode response")
		return nil
	}
	return encoded
}
