package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"marineportal/internal/format"
)

func (o *outputOptions) structured() bool {
	return o != nil && (o.json || strings.TrimSpace(o.format) != "")
}

// writeStructured writes payload when --json or --output was given and
// reports whether it did.
func writeStructured(o *outputOptions, payload any) (bool, error) {
	if !o.structured() {
		return false, nil
	}
	var formatter format.Formatter = format.JSONFormatter{}
	if strings.TrimSpace(o.format) != "" {
		f, err := format.ForName(o.format)
		if err != nil {
			return true, err
		}
		formatter = f
	}
	return true, formatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
