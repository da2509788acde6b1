// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package chunker splits extracted document texts into smaller pieces
// which are suitable for storage in the local chunk index. Splitting
// is separator-based: the text is cut at separator boundaries and
// consecutive parts are accumulated until the configured chunk size
// would be exceeded, optionally carrying a tail of the previous chunk
// over to the next one as an overlap.
package chunker

import "strings"

// Default values for the Chunker configuration knobs.
const (
	DefaultSize      = 1000
	DefaultOverlap   = 200
	DefaultSeparator = "\n"
	DefaultMaxChunks = 1000
)

// Chunker holds the chunking configuration. The zero value is not
// useful; use New in order to obtain an instance with validated
// settings.
type Chunker struct {
	size      int    // soft upper bound on chunk length, in bytes
	overlap   int    // length of the tail carried between chunks
	separator string // boundary marker between text parts
	maxChunks int    // hard cap on the number of produced chunks
}

// New creates a Chunker. Non-positive size or maxChunks and negative
// overlap values are replaced by their default values, and an empty
// separator is replaced by the newline separator, so any combination
// of arguments yields a usable Chunker.
func New(size, overlap int, separator string, maxChunks int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	return &Chunker{
		size:      size,
		overlap:   overlap,
		separator: separator,
		maxChunks: maxChunks,
	}
}

// Chunk splits the given text and returns the resulting chunks in
// order. Empty texts yield a nil slice. Parts which are empty after
// trimming are skipped. When appending a part would push the current
// chunk beyond the configured size, the current chunk is emitted and
// a new one is started, seeded with as many trailing parts of the
// previous chunk as fit in the configured overlap length.
// At most maxChunks chunks are produced; the remaining text is
// dropped once that cap is reached.
func (ck *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, ck.separator)

	var chunks []string
	var current []string
	length := 0
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if length+len(part) > ck.size && length > 0 {
			chunks = append(chunks, strings.Join(current, ck.separator))
			if len(chunks) >= ck.maxChunks {
				return chunks
			}
			current, length = ck.overlapTail(current)
		}
		current = append(current, part)
		length += len(part) + len(ck.separator)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ck.separator))
	}
	return chunks
}

// overlapTail selects the trailing parts of the given chunk which fit
// in the configured overlap length, so they can seed the next chunk.
// With a zero overlap, the next chunk starts fresh.
func (ck *Chunker) overlapTail(parts []string) ([]string, int) {
	if ck.overlap == 0 {
		return nil, 0
	}
	length := 0
	i := len(parts)
	for i > 0 {
		part := parts[i-1]
		if length+len(part) > ck.overlap {
			break
		}
		length += len(part) + len(ck.separator)
		i--
	}
	tail := parts[i:]
	// reuse of the backing array would let the next append clobber
	// the previous chunk's parts
	return append([]string(nil), tail...), length
}
