// Package graph implements a block-based audio processing graph: a
// directed acyclic graph of nodes owned by a Server, evaluated once per
// block by recursive pull from the server's final output connection.
//
// Nodes carry typed properties that can be modulated at audio rate by
// other nodes' outputs, multi-channel connections with automatic channel
// adaptation, and per-node gain/offset post-processing. All public
// mutators and block production are serialized by the Server's lock.
package graph
