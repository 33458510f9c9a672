// File: intent.go
// Title: Media Operation Intent
// Description: The structured result of parsing a phrase: the requested
//              operation, input and output paths, and optional parameters
//              that tune command rendering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package intent

import (
	"fmt"
	"sort"
	"strings"
)

// Operation is the closed set of media operations a phrase can request
type Operation int

const (
	Convert Operation = iota
	Resize
	Transcode
	ExtractAudio
)

var operationNames = map[Operation]string{
	Convert:      "convert",
	Resize:       "resize",
	Transcode:    "transcode",
	ExtractAudio: "extract_audio",
}

// keywords maps lowercased phrase keywords to operations
var keywords = map[string]Operation{
	"convert":      Convert,
	"resize":       Resize,
	"transcode":    Transcode,
	"extract":      ExtractAudio,
	"extractaudio": ExtractAudio,
}

// String returns the canonical name of the operation
func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Valid reports whether o is one of the defined operations
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// MarshalText renders the operation by name
func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid operation %d", int(o))
	}
	return []byte(o.String()), nil
}

// LookupKeyword maps an already-lowercased keyword to its operation
func LookupKeyword(word string) (Operation, bool) {
	op, ok := keywords[word]
	return op, ok
}

// ParseOperation accepts either a keyword or a canonical operation name in
// any case
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if op, ok := keywords[s]; ok {
		return op, nil
	}
	for op, name := range operationNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// Keywords returns the accepted operation keywords in sorted order
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Intent is the structured form of a parsed phrase. Parameters is never nil
// on an Intent built by New.
type Intent struct {
	Operation  Operation         `json:"operation" yaml:"operation"`
	InputPath  string            `json:"input_path" yaml:"input_path"`
	OutputPath string            `json:"output_path" yaml:"output_path"`
	Parameters map[string]string `json:"parameters" yaml:"parameters"`
}

// New builds an Intent with empty parameters
func New(op Operation, input, output string) *Intent {
	return &Intent{
		Operation:  op,
		InputPath:  input,
		OutputPath: output,
		Parameters: make(map[string]string),
	}
}

// Param returns the named parameter, or def when it is unset or empty
func (i *Intent) Param(key, def string) string {
	if v, ok := i.Parameters[key]; ok && v != "" {
		return v
	}
	return def
}

// SetParam sets a parameter, allocating the map if needed
func (i *Intent) SetParam(key, value string) {
	if i.Parameters == nil {
		i.Parameters = make(map[string]string)
	}
	i.Parameters[key] = value
}

// String returns a compact one-line description
func (i *Intent) String() string {
	return fmt.Sprintf("%s %s -> %s", i.Operation, i.InputPath, i.OutputPath)
}
