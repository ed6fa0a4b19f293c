// Package driven defines the outbound ports: interfaces the core services
// depend on, implemented by adapters (upstream clients, the Notion sink,
// file and sqlite stores).
package driven
