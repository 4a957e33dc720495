// Package config loads, normalizes, and validates agentflow configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the AGENTFLOW_API_URL override for
// the editor backend address. The editor client itself only ever sees the
// resolved base URL; everything else here shapes the CLI around it.
package config
