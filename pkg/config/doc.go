// Package config provides configuration loading, defaults, and validation
// for the Themis decision service.
//
// Configuration is expressed in YAML and divided into sections: server,
// rules, audit, store, and telemetry. LoadConfig reads a file over the
// defaults from DefaultConfig; LoadConfigWithEnvOverrides additionally
// applies THEMIS_* environment variables, which always win over the file.
//
// A minimal configuration file:
//
//	server:
//	  listen_address: "0.0.0.0:8458"
//	rules:
//	  path: "rules.yaml"
//	  watch: true
//	audit:
//	  backend: sqlite
//	  sqlite:
//	    path: "data/audit.db"
//
// All omitted fields take documented defaults, and validation errors
// report every offending field at once rather than the first one found.
package config
