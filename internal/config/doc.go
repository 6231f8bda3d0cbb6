// Package config provides configuration management for bootleg-splitter.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Validation
//   - Conversion to PathConfig and TrackConfig for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Writes to ~/Music/Bootlegs/{artist}/{album}
//	// Tracklist template "%songname% - %mm%:%ss%"
//	// Cover art embedded in tags
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath()) // config.toml
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/custom/path/{artist}/{album}"
//	err := settings.Save("/path/to/config.json")
package config
