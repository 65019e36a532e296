// Package config loads the rvshowroom configuration file.
//
// # Configuration Discovery
//
// Load resolves its settings in this order, later steps winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, or ~/.config/rvshowroom/config.toml)
//  3. Environment variables, optionally seeded from a .env file by
//     LoadEnvFile
//
// A missing config file is not an error. Empty values in the file fall back
// to the defaults, with one exception: api_base_url = "" is kept, which
// leaves the client unconfigured so every request fails with a missing base
// URL error.
//
// # Default Values
//
//   - api_base_url: https://rv-developer-portal-prototype.onrender.com
//   - user_agent: rvshowroom/0.1
//   - request_timeout: 10s
//   - log_level: info
//   - log_format: text
//   - log_file: ~/.local/state/rvshowroom/rvshowroom.log
//   - metrics_addr: empty (metrics endpoint disabled)
//
// # TOML Format
//
//	api_base_url = "https://rv-developer-portal-prototype.onrender.com"
//	user_agent = "rvshowroom/0.1"
//	request_timeout = "10s"
//	log_level = "info"
//	log_format = "text"
//	log_file = "~/.local/state/rvshowroom/rvshowroom.log"
//	metrics_addr = "127.0.0.1:9464"
//
// # Environment
//
//   - RVSHOWROOM_API_BASE_URL: replaces api_base_url, even when set to ""
//   - RVSHOWROOM_LOG_LEVEL: replaces log_level when non-empty
//   - RVSHOWROOM_METRICS_ADDR: replaces metrics_addr
//
// # Validation
//
// The merged Config is checked with go-playground/validator: the base URL
// must be an absolute URL when set, the log level and format must be known
// names, the timeout must be positive and the metrics address must be
// host:port. Tilde paths are expanded for the config file and log_file.
package config
