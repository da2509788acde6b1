// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/momeni/docproc/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessingStatusRoundTrip(t *testing.T) {
	for _, s := range []model.ProcessingStatus{
		model.StatusPending,
		model.StatusProcessing,
		model.StatusCompleted,
		model.StatusFailed,
	} {
		require.NoError(t, s.Validate())
		p, err := model.ParseProcessingStatus(s.String())
		require.NoError(t, err, "parsing %q", s.String())
		assert.Equal(t, s, p)
	}
}

func TestParseProcessingStatusUnknown(t *testing.T) {
	for _, str := range []string{"", "done", "PENDING", "error"} {
		s, err := model.ParseProcessingStatus(str)
		assert.ErrorIs(t, err, model.ErrUnknownStatus, "string %q", str)
		assert.Equal(t, model.StatusInvalid, s)
	}
}

func TestProcessingStatusValidate(t *testing.T) {
	err := model.StatusInvalid.Validate()
	require.Error(t, err)
	var serr model.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, model.StatusError(0), serr)
}
