// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pdf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momeni/docproc/pkg/adapter/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingFile(t *testing.T) {
	e := pdf.New()
	err := e.Validate(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestValidateDirectory(t *testing.T) {
	e := pdf.New()
	err := e.Validate(t.TempDir())
	assert.ErrorContains(t, err, "directory")
}

func TestValidateWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
	e := pdf.New()
	err := e.Validate(path)
	assert.ErrorContains(t, err, "only PDF files")
}

func TestValidateCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(
		t, os.WriteFile(path, []byte("this is not a pdf"), 0o644),
	)
	e := pdf.New()
	err := e.Validate(path)
	assert.Error(t, err)
}

func TestExtractTextCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(
		t, os.WriteFile(path, []byte("this is not a pdf"), 0o644),
	)
	e := pdf.New()
	_, err := e.ExtractText(path)
	assert.Error(t, err)
}
