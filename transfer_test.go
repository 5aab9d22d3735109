// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestTransferBarriers(t *testing.T) {
	imgs := make([]vk.Image, 2)
	qi := uint32(3)

	acq := transferBarriers(imgs, TransferAcquire, qi)
	assert.Len(t, acq, 2)
	for _, br := range acq {
		assert.Equal(t, uint32(vk.QueueFamilyExternal), br.SrcQueueFamilyIndex)
		assert.Equal(t, qi, br.DstQueueFamilyIndex)
		assert.Equal(t, vk.ImageLayoutGeneral, br.OldLayout)
		assert.Equal(t, vk.ImageLayoutGeneral, br.NewLayout)
		assert.Equal(t, vk.AccessFlags(0), br.SrcAccessMask)
		assert.Equal(t, vk.AccessFlags(0), br.DstAccessMask)
		assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), br.SubresourceRange.AspectMask)
		assert.Equal(t, uint32(1), br.SubresourceRange.LevelCount)
		assert.Equal(t, uint32(1), br.SubresourceRange.LayerCount)
	}

	// release swaps the queue family pairing
	rel := transferBarriers(imgs, TransferRelease, qi)
	assert.Len(t, rel, 2)
	for _, br := range rel {
		assert.Equal(t, qi, br.SrcQueueFamilyIndex)
		assert.Equal(t, uint32(vk.QueueFamilyExternal), br.DstQueueFamilyIndex)
		assert.Equal(t, vk.ImageLayoutGeneral, br.OldLayout)
		assert.Equal(t, vk.ImageLayoutGeneral, br.NewLayout)
	}
}

func TestTransferEmpty(t *testing.T) {
	// with no registered textures, transfer must not touch the
	// device at all, so it works without one
	txs := NewTextures(nil)
	assert.NoError(t, txs.Acquire())
	assert.NoError(t, txs.Release())
	assert.NoError(t, txs.Transfer(TransferAcquire))
	assert.NoError(t, txs.Transfer(TransferRelease))
}

func TestDeleteUnregistered(t *testing.T) {
	txs := NewTextures(nil)
	tx := &Texture{}
	txs.Delete(tx)
	assert.Empty(t, txs.List)
	// deleting again is a no-op
	txs.Delete(tx)
}

func TestDestroyEmpties(t *testing.T) {
	txs := NewTextures(nil)
	tx := &Texture{}
	txs.Lock()
	txs.List[tx] = struct{}{}
	txs.Unlock()
	txs.Destroy()
	assert.Empty(t, txs.List)
}
