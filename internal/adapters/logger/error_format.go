package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// messager describes an error that can report its own message without the
// chain. This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata attached via
// zerr.With.
type metadataer interface {
	Metadata() map[string]any
}

// errorEntry is a single node of an error chain prepared for display.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain and extracts one entry per cause.
// Errors exposing Message() contribute their bare message plus metadata;
// the first error without it contributes its full Error() text and ends the
// walk, since Error() already includes everything it wraps.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry

	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{Message: current.Error()})
			break
		}

		entry := errorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)

		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders collected entries as a human-readable block:
// the first entry as the main error, the rest under a "Caused by:" header.
// Metadata keys are sorted for stable output.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			for _, line := range msgLines[1:] {
				lines = append(lines, "       "+line)
			}
			for _, kv := range sortedMetadata(entry.Metadata) {
				lines = append(lines, "       "+kv)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, "      "+line)
		}
		for _, kv := range sortedMetadata(entry.Metadata) {
			lines = append(lines, "      "+kv)
		}
	}

	return strings.Join(lines, "\n")
}

func sortedMetadata(metadata map[string]any) []string {
	if len(metadata) == 0 {
		return nil
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, formatMetadataValue(k, metadata[k]))
	}
	return parts
}

func formatMetadataValue(key string, value any) string {
	return key + ": " + fmt.Sprintf("%v", value)
}
