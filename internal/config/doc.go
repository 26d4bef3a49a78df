package config

// Package config loads and persists the YAML application configuration, with
// environment variable overrides for scripted use.
