// Package config loads the server's YAML configuration file, grounded on
// the config-loading convention used elsewhere in this codebase (yaml.v3 decode + zero-value default fallback),
// generalized to the core's full field set.
package config
