// Package config handles application configuration from environment
// variables and an optional YAML file, plus executable-relative path
// resolution for data, report and log directories.
package config
