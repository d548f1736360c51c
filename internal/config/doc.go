// Package config resolves the application configuration.
//
// Resolution merges two sources: the structured TOML base file (always
// consulted) and the flat .env overlay (development mode only, overlay
// wins). Section/key pairs flatten to upper-cased SECTION_KEY entries,
// values are type-cast, and the result is frozen into a Resolved
// snapshot that lives for the process lifetime. A View wraps the
// snapshot with instrumented reads that classify every access as a hit,
// a defaulted miss, or an unrecoverable miss.
package config
