package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ff/foundation/core/error"
)

// Output formats accepted by -o
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// checkOutputFormat rejects unknown -o values before any work is done
func checkOutputFormat(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return mdwerror.New(fmt.Sprintf("unknown output format %q (text, json, yaml)", format)).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("cmd.output")
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkOutputFormat(format)
}
