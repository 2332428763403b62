// Package ast is the grammar model of a compilation unit.
//
// Every definition lives in a single Ast arena and is addressed by Index.
// Index 0 is reserved as "none"; indices are never reused. Nodes refer to
// each other only through indices, so a reference can be recorded before the
// node it names exists. Type references start out Unresolved and are patched
// in place by the resolver once every file is in the arena.
//
// The node set is closed: Node is sealed and consumers switch exhaustively
// over the concrete pointer types (or over NodeKind).
package ast
