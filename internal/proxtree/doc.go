// Package proxtree implements a recursive bounding-volume index over an
// arbitrary set of spatial entries.
//
// The tree is built once from a snapshot of entries and answers two
// questions: which entries lie within a radius of a point (CloseTo), and
// which entries form groups of near-coincident duplicates
// (CoincidentGroups). It is the engine behind structural-node
// deduplication during model import.
//
// The tree itself is entirely free of domain knowledge: coordinate
// extraction and distance computation are supplied by an Extents
// capability set bound to the entry type. Entries are held as indices
// into the build snapshot; the caller keeps ownership of the entities.
//
// The tree is not designed for incremental mutation. Callers needing
// updated contents rebuild; a built tree is safe for any number of
// concurrent readers.
package proxtree
