/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads SocketManager tuning from a viper key, the way the
// rest of this codebase's components load theirs: a named key UnmarshalKey'd
// into a plain struct, no bespoke flag parsing.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ManagerConfig is the tunable surface of a SocketManager, expressed as
// plain durations/ints so it maps directly onto a YAML/JSON/TOML key.
type ManagerConfig struct {
	// Name prefixes the manager's diagnostics.
	Name string `mapstructure:"name" json:"name" yaml:"name"`

	// HighPriority requests above-normal OS thread priority for the writer
	// and poll-reader threads where the platform supports it.
	HighPriority bool `mapstructure:"highPriority" json:"highPriority" yaml:"highPriority"`

	// WriteBudget bounds the dedicated writer's time slice per bridge; zero
	// falls back to the package default (200ms).
	WriteBudget time.Duration `mapstructure:"writeBudget" json:"writeBudget" yaml:"writeBudget"`

	// HeartbeatInterval paces OnHeartbeat in sync regime; zero falls back to
	// the package default (15s). Values below 1s are rejected: the select
	// loop itself polls on a roughly 1s cadence and a faster heartbeat would
	// never actually run at the requested rate.
	HeartbeatInterval time.Duration `mapstructure:"heartbeatInterval" json:"heartbeatInterval" yaml:"heartbeatInterval"`

	// EmptyLookupTimeout bounds how long the poll reader waits with no
	// registered sockets before exiting; zero falls back to 20s.
	EmptyLookupTimeout time.Duration `mapstructure:"emptyLookupTimeout" json:"emptyLookupTimeout" yaml:"emptyLookupTimeout"`

	// MaxHelpers caps concurrent write-helper threads; zero falls back to
	// runtime.NumCPU().
	MaxHelpers int `mapstructure:"maxHelpers" json:"maxHelpers" yaml:"maxHelpers"`
}

// DefaultManagerConfig mirrors the package-level constants used when no
// configuration is supplied at all.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Name:               "socket-manager",
		HighPriority:       false,
		WriteBudget:        200 * time.Millisecond,
		HeartbeatInterval:  15 * time.Second,
		EmptyLookupTimeout: 20 * time.Second,
		MaxHelpers:         0,
	}
}

// Validate rejects combinations that would make the manager misbehave
// silently rather than letting them through to production.
func (c ManagerConfig) Validate() error {
	if c.HeartbeatInterval != 0 && c.HeartbeatInterval < time.Second {
		return fmt.Errorf("config: heartbeatInterval must be >= 1s, got %s", c.HeartbeatInterval)
	}
	if c.MaxHelpers < 0 {
		return fmt.Errorf("config: maxHelpers must be >= 0, got %d", c.MaxHelpers)
	}
	return nil
}

// Load reads key from vip into a ManagerConfig seeded with the package
// defaults, so a config file only needs to override what it cares about.
func Load(vip *viper.Viper, key string) (ManagerConfig, error) {
	cfg := DefaultManagerConfig()

	if vip == nil {
		return cfg, fmt.Errorf("config: nil viper instance")
	}

	if err := vip.UnmarshalKey(key, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal key %q: %w", key, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
