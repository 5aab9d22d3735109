// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDmatexValidate(t *testing.T) {
	assert.ErrorIs(t, testDmatex(0).Validate(), ErrNoPlanes)
	for n := 1; n <= MaxPlanes; n++ {
		assert.NoError(t, testDmatex(n).Validate())
	}
	assert.ErrorIs(t, testDmatex(MaxPlanes+1).Validate(), ErrIncorrectNumberOfPlanes)
}

func TestDmatexCloseFDs(t *testing.T) {
	dtx := testDmatex(3)
	// fds already consumed or never set are skipped
	dtx.CloseFDs()
	for _, pl := range dtx.Planes {
		assert.Equal(t, -1, pl.FD)
	}
	// and closing again is harmless
	dtx.CloseFDs()
}
