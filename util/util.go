// Package util contains small generic helpers shared by the compiler stages.
package util

// HelixCompilerID is the identifying string of this compiler build.
const HelixCompilerID = "helixc (version 0.3.0)"

// PointerSize is the size of a pointer on the target platform in bytes.
const PointerSize = 8

// WordSize is the size of `word` on the target platform in bytes.
const WordSize = 8
