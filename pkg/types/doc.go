// Package types defines the public data model shared by the thumbcache
// parser, the entry store, the index cross-reference subsystem and the
// consumer-facing engine.
//
// Design goals:
//   - Entries record where their bytes live instead of copying image data.
//   - One SharedInfo per source database, reference counted by its entries.
//   - Typed errors with stable categories (format/corrupt/unsupported/...).
//   - Diagnostics collect every malformed record, not just the first.
package types
