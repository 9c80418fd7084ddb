// Package domain contains shared domain types used across the configuration
// and scheduling packages. Sub-packages hold value codecs (domain/watermark).
// This root package holds sentinel errors and the typed errors that unwrap
// to them.
package domain
