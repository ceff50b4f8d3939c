// Package io reads figure blocks out of question-bank files and writes
// rendered artifacts back to disk.
//
// # Input
//
// A question bank is any text file with figures between [FIGURE] and
// [/FIGURE] markers. [ReadBlocks] returns every block with a stable
// identifier built from the file name and the block's position:
//
//	blocks, err := io.ReadBlocks("algebra.txt")
//	// blocks[2].ID == "algebra-03", blocks[2].Source == "algebra.txt#3"
//
// A file with no markers at all is read as a single block, so a bare
// .yaml figure works too.
//
// # Output
//
// [WriteArtifacts] writes one file per format plus a .meta.json sidecar
// holding the render metadata. Every file goes through [WriteFileAtomic]:
// the bytes land in a temporary file in the target directory, are synced,
// and are renamed into place, so readers never observe a half-written
// figure.
package io
