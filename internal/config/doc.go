// Package config manages user-level settings stored at ~/.reana/config.yaml.
// Settings can be overridden with REANA_* environment variables, which may
// also come from a .env file in the working directory.
package config
