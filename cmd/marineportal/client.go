package main

import (
	"fmt"
	"strings"

	"marineportal/internal/api"
	"marineportal/internal/config"
)

func withClient(cfg *config.Config, fn func(*api.Client) error) error {
	if cfg == nil || strings.TrimSpace(cfg.APIURL) == "" {
		return fmt.Errorf("api url is not configured")
	}
	return fn(api.NewClient(cfg.APIURL))
}
