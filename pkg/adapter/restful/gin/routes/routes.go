// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/docproc/pkg/adapter/config"
	"github.com/momeni/docproc/pkg/adapter/db/postgres/docsrp"
	"github.com/momeni/docproc/pkg/adapter/index/sqlite"
	"github.com/momeni/docproc/pkg/adapter/pdf"
	"github.com/momeni/docproc/pkg/adapter/restful/gin/docsrs"
	"github.com/momeni/docproc/pkg/core/repo"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries
// on them and accomplish those use cases. Each use case package is
// named like docsuc and each repository package is named like docsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like docsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context, e *gin.Engine, p repo.Pool, c *config.Config,
) error {
	ix, err := sqlite.Open(c.Storage.IndexDir)
	if err != nil {
		return fmt.Errorf("opening chunk index: %w", err)
	}
	docsRepo := docsrp.New()
	extractor := pdf.New()
	docsUseCase, err := c.NewDocsUseCase(p, docsRepo, extractor, ix)
	if err != nil {
		return fmt.Errorf("creating documents use case: %w", err)
	}
	e.GET("/health", func(gc *gin.Context) {
		gc.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r := e.Group("/api/v1")
	docsrs.Register(r, docsUseCase)
	return nil
}
