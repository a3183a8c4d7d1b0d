// Package config loads routeview configuration.
//
// Values come from, in increasing priority: built-in defaults, a YAML
// config file, ROUTEVIEW_* environment variables and bound command-line
// flags.
//
//	server:
//	  addr: ":8080"
//	  read_timeout: 10s
//	routes:
//	  file: routes.yaml
//	  watch: true
//	  cache_ttl: 1m
//	view:
//	  keep_alive: false
//	  keep_alive_max: 0
//	metrics:
//	  enabled: true
//	  namespace: routeview
//	trace:
//	  stdout: false
//	log:
//	  level: info
//	  format: text
//
// Environment variables replace dots with underscores:
// ROUTEVIEW_SERVER_ADDR, ROUTEVIEW_LOG_LEVEL and so on.
package config
