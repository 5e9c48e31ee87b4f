// Copyright 2026 The GXD Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config enumerates the algorithms a registry recognizes. It is
// loaded once at process start; there is no runtime reconfiguration.
//
// The config file is YAML:
//
//	codecs:
//	  zstd:
//	    effect: level-taking
//	  lz4:
//	    effect: stateless
//	  brotli:
//	    effect: stateless
//	    enabled: false
//	  none:
//	    effect: identity
//
// An entry with enabled: false (or simply absent) is not registered,
// and archives using that algorithm fail with ErrUnsupported when
// read or written.
type Config struct {
	// Codecs maps algorithm tags to their registration settings.
	Codecs map[string]CodecConfig `yaml:"codecs"`
}

// CodecConfig is the per-algorithm registration entry.
type CodecConfig struct {
	// Effect must match the algorithm's compiled-in effect
	// (level-taking, stateless, or identity). Requiring it in the
	// config keeps the file self-documenting and catches entries that
	// were copied onto the wrong tag.
	Effect string `yaml:"effect"`

	// Enabled controls registration. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// DefaultConfig returns the compiled-in configuration: all four
// algorithms enabled.
func DefaultConfig() Config {
	return Config{
		Codecs: map[string]CodecConfig{
			string(Zstd):   {Effect: string(EffectLevelTaking)},
			string(LZ4):    {Effect: string(EffectStateless)},
			string(Brotli): {Effect: string(EffectStateless)},
			string(None):   {Effect: string(EffectIdentity)},
		},
	}
}

// LoadConfig reads and parses a registry configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading codec config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing codec config %s: %w", path, err)
	}
	if len(cfg.Codecs) == 0 {
		return Config{}, fmt.Errorf("codec config %s registers no codecs", path)
	}
	return cfg, nil
}

// NewRegistry builds a registry from a configuration. Entries naming
// an algorithm with no compiled-in implementation, or declaring the
// wrong effect for a known algorithm, are rejected.
func NewRegistry(cfg Config) (*Registry, error) {
	registry := &Registry{entries: make(map[Algorithm]entry)}

	for name, codecCfg := range cfg.Codecs {
		impl, ok := implementations[Algorithm(name)]
		if !ok {
			return nil, fmt.Errorf("codec config: %q has no implementation", name)
		}
		if Effect(codecCfg.Effect) != impl.effect {
			return nil, fmt.Errorf("codec config: %q declares effect %q, implementation is %q",
				name, codecCfg.Effect, impl.effect)
		}
		if codecCfg.Enabled != nil && !*codecCfg.Enabled {
			continue
		}
		registry.entries[Algorithm(name)] = impl
	}

	return registry, nil
}

// DefaultRegistry builds a registry from DefaultConfig. It cannot
// fail: the default configuration matches the compiled-in
// implementation table by construction.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(DefaultConfig())
	if err != nil {
		panic("codec: default registry construction failed: " + err.Error())
	}
	return registry
}
