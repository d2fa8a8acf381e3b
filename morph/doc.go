// Package morph holds the shared data model of the gorpho boundary: element
// type tags, operation and approximation codes, volume views, block size
// hints, the domain error set and its flattening into ABI-stable status
// integers. It has no compute of its own and no dependencies; both engines
// and the boundary build on it.
package morph
