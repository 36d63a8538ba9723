package config

import (
	"errors"
	"fmt"
	"net/url"
)

var ErrMissingCredential = errors.New("missing bearer token: set credentials.bearerToken, X_BEARER_TOKEN or TWITTER_BEARER_TOKEN")

// Validate validates the configuration needed for a search run
func (c *Config) Validate() error {
	checks := []func(*Config) error{
		validateCredentials,
		validateAPIConfig,
		validateOutputConfig,
		validatePresets,
	}

	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}

	return nil
}

func validateCredentials(cfg *Config) error {
	if cfg.Credentials.BearerToken == "" {
		return ErrMissingCredential
	}

	return nil
}

func validateAPIConfig(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", cfg.API.BaseURL)
	}

	if cfg.API.TimeoutSeconds < 0 || cfg.API.MaxAttempts < 0 || cfg.API.BaseBackoffMs < 0 {
		return fmt.Errorf("api timeout, attempts and backoff must not be negative")
	}

	if cfg.API.RPS < 0 || cfg.API.Burst < 0 {
		return fmt.Errorf("invalid api pacing, rps %v burst %d", cfg.API.RPS, cfg.API.Burst)
	}

	return nil
}

func validateOutputConfig(cfg *Config) error {
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output dir is empty")
	}

	if cfg.Output.Prefix == "" {
		return fmt.Errorf("output prefix is empty")
	}

	return nil
}

func validatePresets(cfg *Config) error {
	for name, tags := range cfg.Presets {
		if name == "" {
			return fmt.Errorf("preset with empty name")
		}
		if len(tags) == 0 {
			return fmt.Errorf("preset %q has no hashtags", name)
		}
	}

	return nil
}
