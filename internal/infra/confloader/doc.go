// Package confloader loads layered configuration with koanf.
//
// Sources, later ones overriding earlier ones:
//
//  1. Defaults (LoadMap)
//  2. YAML configuration file
//  3. Environment variables (MULTH_ prefix)
//  4. Command-line flags (LoadMap from the CLI layer)
//
// Watcher reports changes to configuration files through fsnotify.
package confloader
