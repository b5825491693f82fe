// Package config provides configuration management for imagetoken.
//
// Configuration is read from an optional YAML file, overridden by environment
// variables, and validated before use.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("imagetoken.yaml")              // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("imagetoken.yaml")
//	cfg, err := config.Load("")                                  // defaults + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention IMAGETOKEN_SECTION_FIELD:
//
//   - IMAGETOKEN_ESTIMATION_PREFIX_TOKENS overrides estimation.prefix_tokens
//   - IMAGETOKEN_REGISTRY_FILE overrides registry.file
//   - IMAGETOKEN_CACHE_SQLITE_PATH overrides cache.sqlite.path
//   - IMAGETOKEN_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// IMAGE_CACHE_DIR moves the default SQLite cache file into another directory.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// Fields whose zero value is meaningful, such as prefix_tokens and the
// boolean switches, take their defaults from Default before the file is
// parsed, so an explicit 0 or false in the file is kept.
//
// # Singleton Pattern
//
// The CLI stores its configuration in a process-wide singleton:
//
//	if err := config.Initialize(path); err != nil {
//		return err
//	}
//	cfg := config.GetConfig()
//
// Library packages never read the singleton; they receive config structs.
package config
