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

package tools

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/gardennet/GardenWorker/model"
)

// FieldType is the JSON type of a schema field.
type FieldType string

const (
	// FieldNumber accepts any JSON number.
	FieldNumber FieldType = "number"
	// FieldInteger accepts whole JSON numbers only.
	FieldInteger FieldType = "integer"
	// FieldString accepts a JSON string.
	FieldString FieldType = "string"
)

// Field describes one argument of a tool.
type Field struct {
	// Name of the argument.
	Name string
	// Type of the argument.
	Type FieldType
	// Description shown in tool listings.
	Description string
	// Required arguments must be present in every call.
	Required bool
	// Min is the inclusive lower bound for numeric arguments.
	Min *float64
	// Max is the inclusive upper bound for numeric arguments.
	Max *float64
	// ExclusiveMin turns Min into an exclusive bound.
	ExclusiveMin bool
	// Enum lists the accepted values for string arguments.
	Enum []string
}

// Schema describes the arguments a tool accepts.
type Schema struct {
	Fields []Field
}

// Bound returns a pointer to the given bound value.
func Bound(v float64) *float64 {
	return &v
}

// Validate decodes the raw arguments of a call and checks them
// against the schema. Unknown arguments are ignored.
func (s Schema) Validate(raw json.RawMessage) (Arguments, error) {
	args := make(Arguments)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, model.InvalidArgument("arguments must be a JSON object")
		}
	}
	for _, f := range s.Fields {
		value, present := args[f.Name]
		if !present {
			if f.Required {
				return nil, model.InvalidArgument("missing required argument '%s'", f.Name)
			}
			continue
		}
		if err := f.check(value); err != nil {
			return nil, maskAny(err)
		}
	}
	return args, nil
}

func (f Field) check(value interface{}) error {
	switch f.Type {
	case FieldNumber, FieldInteger:
		v, ok := value.(float64)
		if !ok {
			return model.InvalidArgument("argument '%s' must be a number", f.Name)
		}
		if f.Type == FieldInteger && v != math.Trunc(v) {
			return model.InvalidArgument("argument '%s' must be an integer", f.Name)
		}
		return f.checkBounds(v)
	case FieldString:
		v, ok := value.(string)
		if !ok {
			return model.InvalidArgument("argument '%s' must be a string", f.Name)
		}
		if len(f.Enum) > 0 {
			for _, e := range f.Enum {
				if v == e {
					return nil
				}
			}
			return model.InvalidArgument("argument '%s' must be one of: %s", f.Name, strings.Join(f.Enum, ", "))
		}
		return nil
	default:
		return model.InvalidArgument("argument '%s' has unsupported type", f.Name)
	}
}

func (f Field) checkBounds(v float64) error {
	if f.Min != nil && f.Max != nil {
		if v < *f.Min || v > *f.Max {
			return model.InvalidArgument("argument '%s' must be between %g and %g", f.Name, *f.Min, *f.Max)
		}
		return nil
	}
	if f.Min != nil {
		if f.ExclusiveMin && v <= *f.Min {
			return model.InvalidArgument("argument '%s' must be greater than %g", f.Name, *f.Min)
		}
		if !f.ExclusiveMin && v < *f.Min {
			return model.InvalidArgument("argument '%s' must be at least %g", f.Name, *f.Min)
		}
	}
	if f.Max != nil && v > *f.Max {
		return model.InvalidArgument("argument '%s' must be at most %g", f.Name, *f.Max)
	}
	return nil
}

// MarshalJSON renders the schema as a JSON schema object, the shape
// tool listings expose to clients.
func (s Schema) MarshalJSON() ([]byte, error) {
	properties := make(map[string]interface{})
	var required []string
	for _, f := range s.Fields {
		p := make(map[string]interface{})
		p["type"] = string(f.Type)
		if f.Description != "" {
			p["description"] = f.Description
		}
		if f.Min != nil {
			if f.ExclusiveMin {
				p["exclusiveMinimum"] = *f.Min
			} else {
				p["minimum"] = *f.Min
			}
		}
		if f.Max != nil {
			p["maximum"] = *f.Max
		}
		if len(f.Enum) > 0 {
			p["enum"] = f.Enum
		}
		properties[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return json.Marshal(doc)
}
