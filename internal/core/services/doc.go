// Package services implements the driving ports: the migration
// pipeline orchestrator and the publish engine. Services depend on
// driven ports and the pure transform packages, never on adapters.
package services
