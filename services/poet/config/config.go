// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the poet service configuration from an optional
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all poet service configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Server contains HTTP listener settings.
	Server ServerConfig `yaml:"server"`

	// Generation contains poem generation settings.
	Generation GenerationConfig `yaml:"generation"`

	// Rhyme contains rhyme source settings.
	Rhyme RhymeConfig `yaml:"rhyme"`

	// Sampler contains sentence sampling settings.
	Sampler SamplerConfig `yaml:"sampler"`

	// Log contains logging settings.
	Log LogConfig `yaml:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// GenerationConfig contains poem generation settings.
type GenerationConfig struct {
	// Timeout is the deadline for one poem request, retry included.
	Timeout time.Duration `yaml:"timeout"`

	// SearchBound is the draw budget per rhyming line search.
	SearchBound int `yaml:"search_bound"`
}

// RhymeConfig contains rhyme source settings.
type RhymeConfig struct {
	// RequestTimeout bounds one rhyme source HTTP call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// NearRhymeMinScore is the minimum confidence for near rhymes.
	NearRhymeMinScore int `yaml:"near_rhyme_min_score"`

	// RequestsPerSecond rate-limits outbound rhyme lookups.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// SamplerConfig contains sentence sampling settings.
type SamplerConfig struct {
	// PoolSize bounds concurrent sentence sampling.
	PoolSize int `yaml:"pool_size"`

	// MinChars and MaxChars bound the per-draw target line length.
	MinChars int `yaml:"min_chars"`
	MaxChars int `yaml:"max_chars"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration with production defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: 8085,
		},
		Generation: GenerationConfig{
			Timeout:     60 * time.Second,
			SearchBound: 80000,
		},
		Rhyme: RhymeConfig{
			RequestTimeout:    10 * time.Second,
			NearRhymeMinScore: 2000,
			RequestsPerSecond: 10,
		},
		Sampler: SamplerConfig{
			PoolSize: 10,
			MinChars: 50,
			MaxChars: 120,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			JSON:  true,
		},
	}
}

// Load reads configuration from path (if it exists), applies environment
// overrides, and validates the result. An empty path skips the file step.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	loadEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return err
	}
	return yaml.Unmarshal(data, config)
}

func loadEnv(config *Config) {
	if v := os.Getenv("VERSEFORGE_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Server.Port = i
		}
	}
	if v := os.Getenv("VERSEFORGE_GENERATION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Generation.Timeout = d
		}
	}
	if v := os.Getenv("VERSEFORGE_SEARCH_BOUND"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Generation.SearchBound = i
		}
	}
	if v := os.Getenv("VERSEFORGE_RHYME_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Rhyme.RequestTimeout = d
		}
	}
	if v := os.Getenv("VERSEFORGE_NEAR_RHYME_MIN_SCORE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Rhyme.NearRhymeMinScore = i
		}
	}
	if v := os.Getenv("VERSEFORGE_RHYME_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Rhyme.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("VERSEFORGE_SAMPLER_POOL_SIZE"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Sampler.PoolSize = i
		}
	}
	if v := os.Getenv("VERSEFORGE_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("VERSEFORGE_LOG_DIR"); v != "" {
		config.Log.Dir = v
	}
	if v := os.Getenv("VERSEFORGE_LOG_JSON"); v != "" {
		config.Log.JSON = v == "true" || v == "1"
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation.timeout must be positive, got %s", c.Generation.Timeout)
	}
	if c.Generation.SearchBound <= 0 {
		return fmt.Errorf("generation.search_bound must be positive, got %d", c.Generation.SearchBound)
	}
	if c.Rhyme.RequestTimeout <= 0 {
		return fmt.Errorf("rhyme.request_timeout must be positive, got %s", c.Rhyme.RequestTimeout)
	}
	if c.Rhyme.RequestsPerSecond <= 0 {
		return fmt.Errorf("rhyme.requests_per_second must be positive, got %f", c.Rhyme.RequestsPerSecond)
	}
	if c.Sampler.PoolSize <= 0 {
		return fmt.Errorf("sampler.pool_size must be positive, got %d", c.Sampler.PoolSize)
	}
	if c.Sampler.MinChars <= 0 || c.Sampler.MaxChars < c.Sampler.MinChars {
		return fmt.Errorf("sampler char range [%d, %d] is invalid",
			c.Sampler.MinChars, c.Sampler.MaxChars)
	}
	return nil
}
