// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/docproc/internal/test/dbcontainer"
	"github.com/momeni/docproc/pkg/adapter/config"
	"github.com/momeni/docproc/pkg/adapter/db/postgres"
	"github.com/momeni/docproc/pkg/adapter/db/postgres/migration"
	"github.com/momeni/docproc/pkg/adapter/restful/gin"
	"github.com/momeni/docproc/pkg/adapter/restful/gin/routes"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine

	tempDir string
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:     ctx,
		Pg:      pg,
		Pool:    pool,
		tempDir: t.TempDir(),
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	c := &config.Config{}
	// the pool is provided by the test container, but the settings
	// must still pass validation
	c.Database.Name = "docproc"
	c.Database.User = "docproc"
	c.Storage.MigrationsDir = igts.tempDir + "/migrations"
	c.Storage.UploadDir = igts.tempDir + "/uploads"
	c.Storage.IndexDir = igts.tempDir + "/index"
	igts.Require().NoError(c.ValidateAndNormalize())

	mig := migration.New(c.Storage.MigrationsDir, igts.Pool)
	generated, err := mig.EnsureInitialRevision(igts.Ctx)
	igts.Require().NoError(err, "failed to generate initial revision")
	igts.Require().True(generated, "expected an empty migrations dir")
	n, err := mig.Upgrade(igts.Ctx)
	igts.Require().NoError(err, "failed to upgrade database schema")
	igts.Require().Equal(1, n, "expected one applied revision")
	// a second upgrade must be a no-op
	n, err = mig.Upgrade(igts.Ctx)
	igts.Require().NoError(err, "repeated upgrade must not fail")
	igts.Require().Zero(n, "no revision may be applied twice")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery(), gin.CORS())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	err = routes.Register(igts.Ctx, igts.Gin, igts.Pool, c)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func (igts *IntegrationGinTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	return w
}

func (igts *IntegrationGinTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	igts.Require().NoError(
		json.Unmarshal(w.Body.Bytes(), out),
		"cannot decode response: %s", w.Body.String(),
	)
}

func multipartFile(fieldFile, contents string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fieldFile)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write([]byte(contents)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (igts *IntegrationGinTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := igts.serve(req)
	igts.Equal(http.StatusOK, w.Code)
	resp := map[string]string{}
	igts.decode(w, &resp)
	igts.Equal("ok", resp["status"])
}

func (igts *IntegrationGinTestSuite) TestUploadWithoutFile() {
	req := httptest.NewRequest(
		http.MethodPost, "/api/v1/documents/upload", nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) TestUploadNonPDFExtension() {
	body, ctype, err := multipartFile("notes.txt", "plain text")
	igts.Require().NoError(err)
	req := httptest.NewRequest(
		http.MethodPost, "/api/v1/documents/upload", body,
	)
	req.Header.Set("Content-Type", ctype)
	w := igts.serve(req)
	igts.Equal(http.StatusBadRequest, w.Code)
	resp := map[string]string{}
	igts.decode(w, &resp)
	igts.Contains(resp["detail"], "PDF")
}

func (igts *IntegrationGinTestSuite) TestUploadCorruptedPDF() {
	body, ctype, err := multipartFile("junk.pdf", "this is not a pdf")
	igts.Require().NoError(err)
	req := httptest.NewRequest(
		http.MethodPost, "/api/v1/documents/upload", body,
	)
	req.Header.Set("Content-Type", ctype)
	w := igts.serve(req)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) TestListDocumentsEmpty() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	w := igts.serve(req)
	igts.Equal(http.StatusOK, w.Code)
	var resp []map[string]any
	igts.decode(w, &resp)
	igts.Empty(resp)
}

func (igts *IntegrationGinTestSuite) TestListDocumentsInvalidSkip() {
	req := httptest.NewRequest(
		http.MethodGet, "/api/v1/documents?skip=-1", nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) TestGetUnknownDocument() {
	req := httptest.NewRequest(
		http.MethodGet, "/api/v1/documents/"+uuid.NewString(), nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusNotFound, w.Code)
}

func (igts *IntegrationGinTestSuite) TestGetDocumentTextUnknown() {
	req := httptest.NewRequest(
		http.MethodGet,
		"/api/v1/documents/"+uuid.NewString()+"/text",
		nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusNotFound, w.Code)
}

func (igts *IntegrationGinTestSuite) TestGetInvalidDocumentID() {
	req := httptest.NewRequest(
		http.MethodGet, "/api/v1/documents/not-a-uuid", nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusBadRequest, w.Code)
}

func (igts *IntegrationGinTestSuite) TestDeleteUnknownDocument() {
	req := httptest.NewRequest(
		http.MethodDelete, "/api/v1/documents/"+uuid.NewString(), nil,
	)
	w := igts.serve(req)
	igts.Equal(http.StatusNotFound, w.Code)
}
