package main

import (
	"context"
	"errors"
	"net"

	"marineportal/internal/api"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == "" {
			lines = append(lines, "hint: verify MARINE_API_URL points to a marine portal server.")
		}
		if apiErr.Status == 404 && apiErr.Code == "not_found" {
			lines = append(lines, "hint: record kinds are ingestion, otolith and edna.")
		}
		if apiErr.Status == 503 {
			lines = append(lines, "hint: the portal is up but its document store is unreachable; check MONGO_URI on the server.")
		}
		if apiErr.Status >= 500 && apiErr.Status != 503 {
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase MARINE_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a marine portal server is running at MARINE_API_URL.",
			"hint: start one with: marineportal srv",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
