// Package export models the raw partial-export JSON document produced by the
// registration database, and guards its format marker and schema version.
//
// The structs here mirror the wire format exactly and carry no behavior; the
// event package translates them into the cross-linked event graph. Keeping the
// two layers apart means nothing downstream of the builder ever touches raw
// JSON again.
package export
