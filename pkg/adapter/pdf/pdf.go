// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pdf adapts the ledongthuc/pdf library as the PDF validation
// and text extraction adapter of the documents use case.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor validates PDF files and extracts their plain text.
// The zero value is ready to use.
type Extractor struct {
}

// New instantiates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Validate checks that the path file exists, carries the .pdf
// extension, can be parsed as a PDF document, and contains at least
// one page. A non-nil error describes the first failed check.
func (e *Extractor) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stating file: %w", err)
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return errors.New("only PDF files are supported")
	}
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("parsing PDF: %w", err)
	}
	defer f.Close()
	if r.NumPage() == 0 {
		return errors.New("PDF document has no pages")
	}
	return nil
}

// ExtractText returns the plain text contents of the path PDF file.
// A PDF without any extractable text, e.g., a scanned document with
// image-only pages, yields an error rather than an empty string, so
// its document can be marked as failed explicitly.
func (e *Extractor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("parsing PDF: %w", err)
	}
	defer f.Close()
	tr, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}
	b, err := io.ReadAll(tr)
	if err != nil {
		return "", fmt.Errorf("reading extracted text: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", errors.New("no extractable text in PDF document")
	}
	return text, nil
}
