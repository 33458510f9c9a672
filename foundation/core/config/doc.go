// Package config decodes configuration files and finds them on disk.
//
// Package: config
// Title: Configuration Files
// Description: Format detection by extension, TOML and YAML decoding into
//              caller-owned structs, and discovery of the first existing file
//              from a list of search directories and base names.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Typed decoding replaces the generic value map
//
// Usage:
//
//	var cfg AppConfig
//	path, err := config.FindConfigFile(config.DiscoveryOptions{
//		Paths:     []string{".", "./configs"},
//		Filenames: []string{"ff"},
//	})
//	if err == nil {
//		err = config.DecodeFile(path, &cfg)
//	}
package config
