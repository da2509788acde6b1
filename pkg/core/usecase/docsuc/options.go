// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package docsuc

import (
	"fmt"

	"github.com/momeni/docproc/pkg/core/chunker"
)

// Option represents an optional parameter of the documents use case.
type Option func(*UseCase) error

// WithChunking configures the text chunking settings. Invalid values
// are replaced by the chunker package defaults.
func WithChunking(size, overlap int, separator string, maxChunks int) Option {
	return func(uc *UseCase) error {
		uc.chunker = chunker.New(size, overlap, separator, maxChunks)
		return nil
	}
}

// WithPreviewLength configures the maximum length of the extracted
// text preview which is reported in upload responses.
func WithPreviewLength(n int) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("non-positive preview length: %d", n)
		}
		uc.previewLen = n
		return nil
	}
}

// WithUploadDir configures the directory which holds uploaded files,
// so deleted documents can have their files removed too.
func WithUploadDir(dir string) Option {
	return func(uc *UseCase) error {
		if dir == "" {
			return fmt.Errorf("empty upload directory")
		}
		uc.uploadDir = dir
		return nil
	}
}
