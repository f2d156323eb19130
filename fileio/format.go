// Package fileio reads and writes Instruction List programs and Ladder
// Diagram networks. Files are chosen by extension: .json, .yaml/.yml, and
// for programs also plain IL text (.il, .txt).
package fileio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an on-disk encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Text Format = "text"
)

// ErrUnknownFormat is returned for file extensions without a codec.
var ErrUnknownFormat = errors.New("unknown file format")

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".il", ".txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
