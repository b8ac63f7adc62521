package config

import (
	"fmt"
	"os"
	"time"

	"github.com/scribe-works/scribe/pkg/formatting"
)

const (
	EnvWorkflowRunTTL         = "SCRIBE_WORKFLOW_RUN_TTL"
	EnvWorkflowMaxPayloadSize = "SCRIBE_WORKFLOW_MAX_PAYLOAD_SIZE"
	EnvWorkflowSweepInterval  = "SCRIBE_WORKFLOW_SWEEP_INTERVAL"
)

// WorkflowConfig holds run lifecycle parameters. The TTL is stamped on a run
// at creation and never extended afterward.
type WorkflowConfig struct {
	RunTTL         string `toml:"run_ttl"`
	MaxPayloadSize string `toml:"max_payload_size"`
	SweepInterval  string `toml:"sweep_interval"`
}

// RunTTLDuration returns RunTTL as a time.Duration.
func (c *WorkflowConfig) RunTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.RunTTL)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *WorkflowConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

// MaxPayloadSizeBytes returns MaxPayloadSize as a byte count.
func (c *WorkflowConfig) MaxPayloadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxPayloadSize)
	if err != nil {
		return 2 * 1024 * 1024 // 2MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.RunTTL != "" {
		c.RunTTL = overlay.RunTTL
	}
	if overlay.MaxPayloadSize != "" {
		c.MaxPayloadSize = overlay.MaxPayloadSize
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.RunTTL == "" {
		c.RunTTL = "30m"
	}
	if c.MaxPayloadSize == "" {
		c.MaxPayloadSize = "2MB"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowRunTTL); v != "" {
		c.RunTTL = v
	}
	if v := os.Getenv(EnvWorkflowMaxPayloadSize); v != "" {
		c.MaxPayloadSize = v
	}
	if v := os.Getenv(EnvWorkflowSweepInterval); v != "" {
		c.SweepInterval = v
	}
}

func (c *WorkflowConfig) validate() error {
	if _, err := time.ParseDuration(c.RunTTL); err != nil {
		return fmt.Errorf("invalid run_ttl: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxPayloadSize); err != nil {
		return fmt.Errorf("invalid max_payload_size: %w", err)
	}
	if _, err := time.ParseDuration(c.SweepInterval); err != nil {
		return fmt.Errorf("invalid sweep_interval: %w", err)
	}
	return nil
}
