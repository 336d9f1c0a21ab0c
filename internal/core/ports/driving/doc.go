// Package driving defines the driving (primary) ports of the Nexus core.
//
// Driving ports are the use-case interfaces the outside world calls
// into. Services under internal/core/services implement them; adapters
// under internal/adapters/driving (the CLI) consume them.
package driving
