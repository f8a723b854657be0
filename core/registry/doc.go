// Package registry holds the persistent device registry.
//
// A Device is a spare part record classified as Whitelisted (tracked in the
// spare-parts report) or Blacklisted (known, ignored). Identity follows one
// KeyScheme per deployment: composite (materialId|model) or single
// (materialId). Every component derives keys through the scheme rather than
// building them itself.
//
// # Components
//
//   - Store / GormStore: persistence on MySQL or SQLite, upserting on a
//     unique identity_key column.
//   - Cache: TTL snapshot of the whole registry, refreshed through
//     singleflight and invalidated after every write.
//   - Matcher: batch lookup, cache-first with a single storage query fallback.
//   - Registry: the facade used by the features and the CLI.
package registry
