// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package chunker_test

import (
	"strings"
	"testing"

	"github.com/momeni/docproc/pkg/core/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyText(t *testing.T) {
	ck := chunker.New(100, 0, "\n", 10)
	assert.Nil(t, ck.Chunk(""))
}

func TestChunkBlankPartsAreSkipped(t *testing.T) {
	ck := chunker.New(100, 0, "\n", 10)
	chunks := ck.Chunk("\n\n  \n\t\n")
	assert.Empty(t, chunks)
}

func TestChunkSingleSmallText(t *testing.T) {
	ck := chunker.New(100, 0, "\n", 10)
	chunks := ck.Chunk("hello world")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkSplitsAtSizeBoundary(t *testing.T) {
	// four 10-byte lines with a 25-byte chunk size: two lines fit in
	// each chunk, the third one overflows it
	lines := []string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 10),
		strings.Repeat("c", 10),
		strings.Repeat("d", 10),
	}
	ck := chunker.New(25, 0, "\n", 10)
	chunks := ck.Chunk(strings.Join(lines, "\n"))
	require.Len(t, chunks, 2)
	assert.Equal(t, lines[0]+"\n"+lines[1], chunks[0])
	assert.Equal(t, lines[2]+"\n"+lines[3], chunks[1])
}

func TestChunkOverlapCarriesTail(t *testing.T) {
	lines := []string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 10),
		strings.Repeat("c", 10),
	}
	ck := chunker.New(25, 10, "\n", 10)
	chunks := ck.Chunk(strings.Join(lines, "\n"))
	require.Len(t, chunks, 2)
	assert.Equal(t, lines[0]+"\n"+lines[1], chunks[0])
	// the second chunk starts with the overlapped previous line
	assert.Equal(t, lines[1]+"\n"+lines[2], chunks[1])
}

func TestChunkMaxChunksCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString(strings.Repeat("x", 30))
		sb.WriteString("\n")
	}
	ck := chunker.New(30, 0, "\n", 3)
	chunks := ck.Chunk(sb.String())
	assert.Len(t, chunks, 3)
}

func TestChunkNormalizesCRLF(t *testing.T) {
	ck := chunker.New(100, 0, "\n", 10)
	chunks := ck.Chunk("first\r\nsecond")
	require.Len(t, chunks, 1)
	assert.Equal(t, "first\nsecond", chunks[0])
}

func TestNewReplacesInvalidSettings(t *testing.T) {
	ck := chunker.New(0, -1, "", 0)
	chunks := ck.Chunk("one\ntwo")
	require.Len(t, chunks, 1)
	assert.Equal(t, "one\ntwo", chunks[0])
}
