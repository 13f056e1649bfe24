// Package interval implements a coordinate-normalized overlap primitive,
// a heterogeneous record comparator built on top of it, and a
// disjoint-interval-set index, based on a one-pass merge-scan over
// sorted BED-like records, for fast containment queries over a merged
// interval collection.
package interval
