// Package ports defines interfaces between layers in the hexagonal architecture.
// Provider and store ports are implemented by outbound adapters and consumed by
// the application layer. Service ports are implemented by the application
// layer and called by inbound adapters.
package ports
