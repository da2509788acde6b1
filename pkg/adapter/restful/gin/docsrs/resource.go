// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package docsrs realizes the documents resource, allowing the
// document management REST APIs to be accepted and delegated to the
// documents use cases respectively.
package docsrs

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/docproc/pkg/core/usecase/docsuc"
)

type resource struct {
	docs *docsuc.UseCase
}

// Register instantiates a resource adapting the documents use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/v1/documents/upload
//     in order to upload and process a PDF document,
//  2. GET request to /api/v1/documents
//     in order to list documents with pagination,
//  3. GET request to /api/v1/documents/:did
//     in order to fetch one document's details,
//  4. GET request to /api/v1/documents/:did/text
//     in order to fetch one document's full extracted text,
//  5. DELETE request to /api/v1/documents/:did
//     in order to delete a document and its derived data.
func Register(r *gin.RouterGroup, docs *docsuc.UseCase) {
	rs := &resource{docs: docs}
	r.POST("documents/upload", rs.UploadDocument)
	r.GET("documents", rs.ListDocuments)
	r.GET("documents/:did", rs.GetDocument)
	r.GET("documents/:did/text", rs.GetDocumentText)
	r.DELETE("documents/:did", rs.DeleteDocument)
}

func (rs *resource) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "a file form field is required",
		})
		return
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "only PDF files are supported",
		})
		return
	}
	tmp := filepath.Join(
		os.TempDir(), fmt.Sprintf("upload-%s.pdf", uuid.NewString()),
	)
	if err := c.SaveUploadedFile(fh, tmp); err != nil {
		serdser.SerErr(c, fmt.Errorf("saving uploaded file: %w", err))
		return
	}
	defer os.Remove(tmp)
	doc, err := rs.docs.Upload(c, tmp, fh.Filename)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rs.SerUploadResp(doc))
}

func (rs *resource) ListDocuments(c *gin.Context) {
	req := rs.DserListReq(c)
	if req == nil {
		return
	}
	dl, err := rs.docs.List(c, req.Skip, req.Limit)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.SerListResp(dl))
}

func (rs *resource) GetDocument(c *gin.Context) {
	docID, ok := rs.DserDocID(c)
	if !ok {
		return
	}
	doc, err := rs.docs.Get(c, docID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.SerDocumentResp(doc))
}

func (rs *resource) GetDocumentText(c *gin.Context) {
	docID, ok := rs.DserDocID(c)
	if !ok {
		return
	}
	doc, err := rs.docs.Text(c, docID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.SerTextResp(doc))
}

func (rs *resource) DeleteDocument(c *gin.Context) {
	docID, ok := rs.DserDocID(c)
	if !ok {
		return
	}
	if err := rs.docs.Delete(c, docID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"detail": fmt.Sprintf("document %s deleted", docID),
	})
}
