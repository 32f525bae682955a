// Package config loads runtime configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags >
// YAML config > Environment variables > Defaults. Besides server settings
// it carries the selected environment identifier and any extra environment
// definitions declared in the YAML file.
package config
