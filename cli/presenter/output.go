// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package presenter

import (
	"fmt"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// OutputFormat represents the different output formats available.
type OutputFormat string

const (
	// FormatHuman is the default human-readable output format.
	FormatHuman OutputFormat = "human"
	// FormatJSON is pretty-printed JSON format with indentation.
	FormatJSON OutputFormat = "json"
	// FormatJSONL is newline-delimited JSON format (one object per line, no indentation).
	FormatJSONL OutputFormat = "jsonl"
	// FormatRaw outputs only raw values (IDs, emails) one per line.
	FormatRaw OutputFormat = "raw"
)

var formats = []OutputFormat{FormatHuman, FormatJSON, FormatJSONL, FormatRaw}

// OutputOptions holds the output formatting options.
type OutputOptions struct {
	Format OutputFormat
}

// IsStructuredOutput returns true if the output format is structured (json, jsonl, or raw).
// Structured outputs route metadata to stderr instead of stdout.
func (o OutputOptions) IsStructuredOutput() bool {
	return o.Format == FormatJSON || o.Format == FormatJSONL || o.Format == FormatRaw
}

// ParseOutputFormat validates an --output value.
func ParseOutputFormat(value string) (OutputFormat, error) {
	for _, f := range formats {
		if strings.EqualFold(value, string(f)) {
			return f, nil
		}
	}

	return "", fmt.Errorf("unknown output format %q", value)
}

// GetOutputOptions extracts output format options from command flags.
// Commands without an --output flag use the human format.
func GetOutputOptions(cmd *cobra.Command) OutputOptions {
	opts := OutputOptions{
		Format: FormatHuman,
	}

	if outputFlag, err := cmd.Flags().GetString("output"); err == nil && outputFlag != "" {
		opts.Format = OutputFormat(strings.ToLower(outputFlag))
	}

	return opts
}

// AddOutputFlags adds the standard --output flag to a command.
func AddOutputFlags(cmd *cobra.Command) {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}

	cmd.Flags().StringP("output", "o", string(FormatHuman), "Output format: "+strings.Join(names, "|"))
}

// PrintMessage outputs value in the format selected by the --output flag.
// title names the value in the human "No <title> found" message.
func PrintMessage(cmd *cobra.Command, title, message string, value any) error {
	opts := GetOutputOptions(cmd)

	if _, err := ParseOutputFormat(string(opts.Format)); err != nil {
		return err
	}

	// Handle empty case for multiple values
	if value == nil || isEmptySlice(value) {
		if opts.IsStructuredOutput() {
			Print(cmd, "[]\n")
		} else {
			Println(cmd, fmt.Sprintf("No %s found", title))
		}

		return nil
	}

	switch opts.Format {
	case FormatRaw:
		printRaw(cmd, value)

		return nil

	case FormatJSON:
		output, err := jsonCodec.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		Printf(cmd, "%s\n", output)

		return nil

	case FormatJSONL:
		return printJSONL(cmd, value)

	case FormatHuman:
		Println(cmd, fmt.Sprintf("%s: %v", message, value))
	}

	return nil
}

// printRaw prints a single value, or every element of a slice on its own line.
func printRaw(cmd *cobra.Command, value any) {
	if !isSliceOrArray(value) {
		Printf(cmd, "%v\n", value)

		return
	}

	v := reflect.ValueOf(value)
	for i := range v.Len() {
		Printf(cmd, "%v\n", v.Index(i).Interface())
	}
}

// printJSONL outputs data in newline-delimited JSON format (one object per line, no indentation).
func printJSONL(cmd *cobra.Command, value any) error {
	if !isSliceOrArray(value) {
		output, err := jsonCodec.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		Printf(cmd, "%s\n", output)

		return nil
	}

	v := reflect.ValueOf(value)
	for i := range v.Len() {
		output, err := jsonCodec.Marshal(v.Index(i).Interface())
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		Printf(cmd, "%s\n", output)
	}

	return nil
}

// isSliceOrArray returns true if the value is a slice or array.
func isSliceOrArray(value any) bool {
	if value == nil {
		return false
	}

	kind := reflect.ValueOf(value).Kind()

	return kind == reflect.Slice || kind == reflect.Array
}

// isEmptySlice returns true if the value is an empty slice or array.
func isEmptySlice(value any) bool {
	if !isSliceOrArray(value) {
		return false
	}

	return reflect.ValueOf(value).Len() == 0
}
