// Package config defines the multh configuration.
//
// Configuration is layered by confloader: built-in defaults, then the YAML
// file, then MULTH_ environment variables, then command-line flags.
// Verify reports every invalid field at once.
package config
