// Package types defines the package and version records, the
// MetadataStore and BlobStore interfaces, identity and role types,
// and standard errors for the Depot registry.
// See docs/ARCHITECTURE.md § Core Types.
package types
