// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", SafeString(""))
	assert.Equal(t, "abc\x00", SafeString("abc"))
	assert.Equal(t, "abc\x00", SafeString("abc\x00"))
}

func TestCheckExisting(t *testing.T) {
	act := []string{"VK_KHR_external_memory_fd", "VK_EXT_external_memory_dma_buf"}
	req := SafeStrings([]string{
		"VK_KHR_external_memory_fd",
		"VK_EXT_image_drm_format_modifier",
	})
	got, missing := CheckExisting(act, req)
	assert.Equal(t, 1, missing)
	assert.Equal(t, []string{"VK_KHR_external_memory_fd\x00"}, got)

	got, missing = CheckExisting(act, nil)
	assert.Zero(t, missing)
	assert.Empty(t, got)
}
