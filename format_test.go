// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

var allFourccs = []Fourcc{
	FourccR8, FourccR16,
	FourccRG88, FourccGR88, FourccRG1616, FourccGR1616,
	FourccRGB565, FourccBGR565,
	FourccRGB888, FourccBGR888,
	FourccARGB8888, FourccXRGB8888, FourccABGR8888, FourccXBGR8888,
	FourccRGBA8888, FourccRGBX8888, FourccBGRA8888, FourccBGRX8888,
	FourccRGB888A8, FourccBGR888A8,
	FourccARGB1555, FourccXRGB1555, FourccABGR1555, FourccXBGR1555,
	FourccRGBA5551, FourccRGBX5551, FourccBGRA5551, FourccBGRX5551,
	FourccARGB4444, FourccXRGB4444, FourccABGR4444, FourccXBGR4444,
	FourccRGBA4444, FourccRGBX4444, FourccBGRA4444, FourccBGRX4444,
	FourccARGB2101010, FourccXRGB2101010, FourccABGR2101010, FourccXBGR2101010,
}

func TestFourccString(t *testing.T) {
	assert.Equal(t, "XR24", FourccXRGB8888.String())
	assert.Equal(t, "AB30", FourccABGR2101010.String())
	assert.Equal(t, "R8  ", FourccR8.String())
}

func TestVulkanFormatTotal(t *testing.T) {
	for _, fc := range allFourccs {
		f, err := VulkanFormat(fc)
		if err != nil {
			// every declared fourcc is recognized: the only allowed
			// failure is a missing vulkan equivalent
			assert.ErrorIs(t, err, ErrVulkanIncompatibleFormat, fc.String())
			continue
		}
		assert.NotEqual(t, vk.FormatUndefined, f, fc.String())
	}
}

func TestVulkanFormatDeterministic(t *testing.T) {
	for _, fc := range allFourccs {
		f1, err1 := VulkanFormat(fc)
		f2, err2 := VulkanFormat(fc)
		assert.Equal(t, f1, f2)
		assert.Equal(t, err1 == nil, err2 == nil)
	}
}

func TestVulkanFormatUnrecognized(t *testing.T) {
	_, err := VulkanFormat(Fourcc(0x12345678))
	assert.ErrorIs(t, err, ErrUnrecognizedFourcc)
}

func TestVulkanFormatKnown(t *testing.T) {
	f, err := VulkanFormat(FourccXRGB8888)
	assert.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, f)

	f, err = VulkanFormat(FourccABGR8888)
	assert.NoError(t, err)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, f)

	// valid DRM format with no vulkan equivalent
	_, err = VulkanFormat(FourccGR88)
	assert.ErrorIs(t, err, ErrVulkanIncompatibleFormat)
}

func TestSRGBFormat(t *testing.T) {
	sf, has := SRGBFormat(vk.FormatR8g8b8a8Unorm)
	assert.True(t, has)
	assert.Equal(t, vk.FormatR8g8b8a8Srgb, sf)

	sf, has = SRGBFormat(vk.FormatB8g8r8a8Unorm)
	assert.True(t, has)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, sf)

	// no sRGB sibling: callers fall back to the unorm format
	_, has = SRGBFormat(vk.FormatR5g6b5UnormPack16)
	assert.False(t, has)
	_, has = SRGBFormat(vk.FormatR16Unorm)
	assert.False(t, has)
}

func TestFormatTexFormat(t *testing.T) {
	tf, err := FormatTexFormat(vk.FormatR8g8b8a8Srgb)
	assert.NoError(t, err)
	assert.Equal(t, Rgba8Srgb, tf)

	tf, err = FormatTexFormat(vk.FormatB8g8r8a8Unorm)
	assert.NoError(t, err)
	assert.Equal(t, Bgra8Unorm, tf)

	// 565 has no renderer equivalent
	_, err = FormatTexFormat(vk.FormatR5g6b5UnormPack16)
	assert.ErrorIs(t, err, ErrRendererIncompatibleFormat)
}

func TestTexFormatRoundTrip(t *testing.T) {
	for tf := UndefTexFormat + 1; tf < TexFormatsN; tf++ {
		back, err := FormatTexFormat(tf.VkFormat())
		assert.NoError(t, err)
		assert.Equal(t, tf, back)
	}
}
