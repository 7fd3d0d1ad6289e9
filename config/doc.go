// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml, validated using struct tags and
// then overridden from the environment (a .env file is honored). The city to
// play in is selected by name from the configured or built-in city list.
package config
