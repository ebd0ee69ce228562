// Package event builds the cross-linked event graph out of a raw partial
// export and answers the queries the document templates need.
//
// The build is a single synchronous pass: entities are constructed in
// dependency order (parts, tracks, courses, lodgement groups, lodgements,
// registrations), then a resolver synthesizes the relationships the export
// leaves implicit (parts a registration never applied for, tracks a course
// does not run in) and wires the attendee and inhabitant back-references.
// Because registrations are constructed in their final sort order, every
// back-reference list in the graph comes out name-sorted without any
// downstream sorting.
//
// The finished graph is read-only. Concurrent readers, such as the render
// workers, share it without synchronization.
package event
