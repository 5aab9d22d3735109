// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"image"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestNeedsDisjoint(t *testing.T) {
	assert.False(t, needsDisjoint(0))
	assert.False(t, needsDisjoint(1))
	assert.True(t, needsDisjoint(2))
	assert.True(t, needsDisjoint(3))
	assert.True(t, needsDisjoint(4))
}

func TestMemoryPlaneAspect(t *testing.T) {
	aspects := []vk.ImageAspectFlagBits{
		vk.ImageAspectMemoryPlane0Bit,
		vk.ImageAspectMemoryPlane1Bit,
		vk.ImageAspectMemoryPlane2Bit,
		vk.ImageAspectMemoryPlane3Bit,
	}
	for i, want := range aspects {
		got, err := memoryPlaneAspect(i)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := memoryPlaneAspect(4)
	assert.ErrorIs(t, err, ErrIncorrectNumberOfPlanes)
	_, err = memoryPlaneAspect(-1)
	assert.ErrorIs(t, err, ErrIncorrectNumberOfPlanes)
}

func memProps(flags ...vk.MemoryPropertyFlagBits) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = uint32(len(flags))
	for i, fl := range flags {
		props.MemoryTypes[i] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(fl)}
	}
	return props
}

func TestSelectMemoryType(t *testing.T) {
	props := memProps(
		vk.MemoryPropertyProtectedBit,
		vk.MemoryPropertyDeviceLocalBit,
		vk.MemoryPropertyDeviceLocalBit|vk.MemoryPropertyLazilyAllocatedBit,
		vk.MemoryPropertyHostVisibleBit,
	)

	// lowest eligible index, skipping forbidden type 0
	idx, err := SelectMemoryType(props, 0b1111)
	assert.NoError(t, err)
	assert.Equal(t, 1, idx)

	// type bits restrict the choice
	idx, err = SelectMemoryType(props, 0b1000)
	assert.NoError(t, err)
	assert.Equal(t, 3, idx)

	// only forbidden types available
	_, err = SelectMemoryType(props, 0b0101)
	assert.ErrorIs(t, err, ErrNoValidMemoryTypes)

	// empty mask
	_, err = SelectMemoryType(props, 0)
	assert.ErrorIs(t, err, ErrNoValidMemoryTypes)
}

func TestSelectMemoryTypeNeverForbidden(t *testing.T) {
	props := memProps(
		vk.MemoryPropertyLazilyAllocatedBit,
		vk.MemoryPropertyProtectedBit,
		vk.MemoryPropertyDeviceLocalBit,
		vk.MemoryPropertyLazilyAllocatedBit,
	)
	forbidden := vk.MemoryPropertyFlags(vk.MemoryPropertyProtectedBit | vk.MemoryPropertyLazilyAllocatedBit)
	for bits := uint32(0); bits < 1<<4; bits++ {
		idx, err := SelectMemoryType(props, bits)
		if err != nil {
			assert.ErrorIs(t, err, ErrNoValidMemoryTypes)
			continue
		}
		assert.Zero(t, props.MemoryTypes[idx].PropertyFlags&forbidden)
		assert.NotZero(t, bits&(1<<uint32(idx)))
	}
}

func testDmatex(planes int) *Dmatex {
	dtx := &Dmatex{
		Size:     image.Point{X: 64, Y: 64},
		Format:   FourccXRGB8888,
		Modifier: ModifierLinear,
	}
	for i := 0; i < planes; i++ {
		dtx.Planes = append(dtx.Planes, Plane{FD: -1, Stride: 256})
	}
	return dtx
}

func TestImportStructuralErrors(t *testing.T) {
	txs := NewTextures(nil)

	_, err := txs.Import(testDmatex(0), TexSampled)
	assert.ErrorIs(t, err, ErrNoPlanes)

	_, err = txs.Import(testDmatex(5), TexSampled)
	assert.ErrorIs(t, err, ErrIncorrectNumberOfPlanes)

	dtx := testDmatex(1)
	dtx.Format = Fourcc(0xdeadbeef)
	_, err = txs.Import(dtx, TexSampled)
	assert.ErrorIs(t, err, ErrUnrecognizedFourcc)

	dtx = testDmatex(1)
	dtx.Format = FourccGR88
	_, err = txs.Import(dtx, TexSampled)
	assert.ErrorIs(t, err, ErrVulkanIncompatibleFormat)

	dtx = testDmatex(1)
	dtx.Format = FourccRGB565
	_, err = txs.Import(dtx, TexSampled)
	assert.ErrorIs(t, err, ErrRendererIncompatibleFormat)

	// structurally fine, but no vulkan device
	_, err = txs.Import(testDmatex(1), TexSampled)
	assert.ErrorIs(t, err, ErrNotVulkan)

	// nothing was registered by any failed import
	assert.Empty(t, txs.List)
}

func TestImportNoLatching(t *testing.T) {
	txs := NewTextures(nil)

	_, err := txs.Import(testDmatex(0), TexSampled)
	assert.ErrorIs(t, err, ErrNoPlanes)

	// a previous failure does not leak into the next attempt
	_, err = txs.Import(testDmatex(1), TexSampled)
	assert.ErrorIs(t, err, ErrNotVulkan)
	assert.NotErrorIs(t, err, ErrNoPlanes)
}

func TestTextureReleaseIdempotent(t *testing.T) {
	tx := &Texture{}
	tx.Release()
	tx.Release()
	assert.Nil(t, tx.Image)
	assert.Nil(t, tx.View)
	assert.Nil(t, tx.Mems)
}

func TestTexUsageFlags(t *testing.T) {
	assert.Equal(t, vk.ImageUsageFlags(vk.ImageUsageSampledBit|vk.ImageUsageTransferSrcBit),
		TexSampled.VkUsage())
	assert.Equal(t, vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit|vk.ImageUsageTransferDstBit),
		TexRenderTarget.VkUsage())
}

func TestImportGPU(t *testing.T) {
	t.Skip("Need software GPU on CI")
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	defer Terminate()
	gp := NewGPU()
	if err := gp.Config("vdmabuf_test"); err != nil {
		t.Fatal(err)
	}
	defer gp.Destroy()
	txs := NewTextures(gp)
	defer txs.Destroy()

	mods := gp.DRMModifiers(vk.FormatB8g8r8a8Unorm)
	assert.NotEmpty(t, mods)
}
