// Package config loads runtime configuration for the gophshop client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. GOPHSHOP_* environment variables, with a .env file loaded first.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the storefront API
//	-d string   path to the session database
//	-t int      request timeout (seconds)
//	-p int      list page size
//
// # JSON schema
//
// Durations use timex.Duration, so they are either strings like "15s" or
// integer nanoseconds. Every key is optional:
//
//	{
//	  "server_url": "http://localhost:8000",
//	  "database_path": "gophshop.db",
//	  "request_timeout": "30s",
//	  "page_size": 20,
//	  "log_level": "info",
//	  "log_format": "json"
//	}
//
// # Environment
//
//	GOPHSHOP_SERVER_URL, GOPHSHOP_DATABASE_PATH, GOPHSHOP_REQUEST_TIMEOUT,
//	GOPHSHOP_PAGE_SIZE, GOPHSHOP_LOG_LEVEL, GOPHSHOP_LOG_FORMAT
package config
