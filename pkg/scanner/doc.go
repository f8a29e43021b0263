// Package scanner implements the periodic network discovery scan.
//
// A Scanner owns a background goroutine that probes the network on a fixed
// interval through a pluggable Backend and reports each newly seen endpoint
// to registered listeners as a (service, info) pair. Endpoints already
// reported in an earlier round are suppressed, so listeners only see each
// device once per scanner run.
//
// The bundled MDNSBackend browses a table of well-known mDNS/DNS-SD service
// types and classifies the answers into service identifiers. Other discovery
// mechanisms (SSDP, cloud registries, fixtures in tests) plug in behind the
// same Backend interface.
package scanner
