/*
Package ports defines the driven ports (interfaces) of the experience engine.

These interfaces decouple submission handling from concrete backends, so the
runtime server can publish compiled reports to memory, the filesystem or Redis.

# Key Interfaces

  - ReportStore: Persists and retrieves compiled reports by ID.
*/
package ports
