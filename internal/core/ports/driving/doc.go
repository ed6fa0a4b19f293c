// Package driving defines the inbound ports: the interfaces the CLI (and
// the watch loop) drive the core services through.
package driving
