// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// VulkanFormat returns the Vulkan format for a DRM fourcc code.
// X variants map to the corresponding alpha format: the driver reads
// the padding byte and the sampler is expected to ignore alpha.
func VulkanFormat(fc Fourcc) (vk.Format, error) {
	if f, has := vulkanFormats[fc]; has {
		return f, nil
	}
	if _, known := knownFourccs[fc]; known {
		return vk.FormatUndefined, fmt.Errorf("%w: %s", ErrVulkanIncompatibleFormat, fc)
	}
	return vk.FormatUndefined, fmt.Errorf("%w: %s (%#08x)", ErrUnrecognizedFourcc, fc, uint32(fc))
}

var vulkanFormats = map[Fourcc]vk.Format{
	FourccR8:  vk.FormatR8Unorm,
	FourccR16: vk.FormatR16Unorm,

	FourccRG88:   vk.FormatR8g8Unorm,
	FourccRG1616: vk.FormatR16g16Unorm,

	FourccRGB565: vk.FormatR5g6b5UnormPack16,
	FourccBGR565: vk.FormatB5g6r5UnormPack16,

	FourccRGB888: vk.FormatR8g8b8Unorm,
	FourccBGR888: vk.FormatB8g8r8Unorm,

	FourccABGR8888: vk.FormatR8g8b8a8Unorm,
	FourccXBGR8888: vk.FormatR8g8b8a8Unorm,
	FourccARGB8888: vk.FormatB8g8r8a8Unorm,
	FourccXRGB8888: vk.FormatB8g8r8a8Unorm,
	FourccRGBA8888: vk.FormatR8g8b8a8Unorm,
	FourccRGBX8888: vk.FormatR8g8b8a8Unorm,
	FourccBGRA8888: vk.FormatB8g8r8a8Unorm,
	FourccBGRX8888: vk.FormatB8g8r8a8Unorm,

	FourccRGB888A8: vk.FormatR8g8b8a8Unorm,
	FourccBGR888A8: vk.FormatB8g8r8a8Unorm,

	FourccABGR1555: vk.FormatR5g5b5a1UnormPack16,
	FourccXBGR1555: vk.FormatR5g5b5a1UnormPack16,
	FourccARGB1555: vk.FormatA1r5g5b5UnormPack16,
	FourccXRGB1555: vk.FormatA1r5g5b5UnormPack16,
	FourccRGBA5551: vk.FormatR5g5b5a1UnormPack16,
	FourccRGBX5551: vk.FormatR5g5b5a1UnormPack16,
	FourccBGRA5551: vk.FormatB5g5r5a1UnormPack16,
	FourccBGRX5551: vk.FormatB5g5r5a1UnormPack16,

	FourccARGB4444: vk.FormatB4g4r4a4UnormPack16,
	FourccXRGB4444: vk.FormatB4g4r4a4UnormPack16,
	FourccRGBA4444: vk.FormatR4g4b4a4UnormPack16,
	FourccRGBX4444: vk.FormatR4g4b4a4UnormPack16,
	FourccBGRA4444: vk.FormatB4g4r4a4UnormPack16,
	FourccBGRX4444: vk.FormatB4g4r4a4UnormPack16,

	FourccABGR2101010: vk.FormatA2b10g10r10UnormPack32,
	FourccXBGR2101010: vk.FormatA2b10g10r10UnormPack32,
	FourccARGB2101010: vk.FormatA2r10g10b10UnormPack32,
	FourccXRGB2101010: vk.FormatA2r10g10b10UnormPack32,
}

// knownFourccs lists fourccs that are valid DRM formats but have no
// Vulkan equivalent here: GR component orders would need swizzles,
// and ABGR4444 needs the 4444-formats extension.
var knownFourccs = map[Fourcc]struct{}{
	FourccGR88:     {},
	FourccGR1616:   {},
	FourccABGR4444: {},
	FourccXBGR4444: {},
}

// SRGBFormat returns the sRGB sibling of a UNORM format, and whether
// one exists.  Callers that want sRGB sampling of a format with no
// sibling should fall back to the UNORM format silently.
func SRGBFormat(f vk.Format) (vk.Format, bool) {
	sf, has := srgbFormats[f]
	return sf, has
}

var srgbFormats = map[vk.Format]vk.Format{
	vk.FormatR8Unorm:                vk.FormatR8Srgb,
	vk.FormatR8g8Unorm:              vk.FormatR8g8Srgb,
	vk.FormatR8g8b8Unorm:            vk.FormatR8g8b8Srgb,
	vk.FormatB8g8r8Unorm:            vk.FormatB8g8r8Srgb,
	vk.FormatR8g8b8a8Unorm:          vk.FormatR8g8b8a8Srgb,
	vk.FormatB8g8r8a8Unorm:          vk.FormatB8g8r8a8Srgb,
	vk.FormatA8b8g8r8UnormPack32:    vk.FormatA8b8g8r8SrgbPack32,
	vk.FormatBc1RgbUnormBlock:       vk.FormatBc1RgbSrgbBlock,
	vk.FormatBc1RgbaUnormBlock:      vk.FormatBc1RgbaSrgbBlock,
	vk.FormatBc2UnormBlock:          vk.FormatBc2SrgbBlock,
	vk.FormatBc3UnormBlock:          vk.FormatBc3SrgbBlock,
	vk.FormatBc7UnormBlock:          vk.FormatBc7SrgbBlock,
	vk.FormatEtc2R8g8b8UnormBlock:   vk.FormatEtc2R8g8b8SrgbBlock,
	vk.FormatEtc2R8g8b8a1UnormBlock: vk.FormatEtc2R8g8b8a1SrgbBlock,
	vk.FormatEtc2R8g8b8a8UnormBlock: vk.FormatEtc2R8g8b8a8SrgbBlock,
}

// TexFormats is the list of renderer texture formats that imported
// images can be sampled as.  Only a subset of Vulkan formats has a
// renderer equivalent; imports of others fail up front.
type TexFormats int32

const (
	UndefTexFormat TexFormats = iota

	R8Unorm
	Rg8Unorm
	R16Unorm
	Rg16Unorm

	Rgba8Unorm
	Rgba8Srgb
	Bgra8Unorm
	Bgra8Srgb

	Rgb10a2Unorm

	TexFormatsN
)

//go:generate stringer -type=TexFormats

// VkFormat returns the Vulkan format for the renderer format.
func (tf TexFormats) VkFormat() vk.Format {
	return VulkanTexFormats[tf]
}

var VulkanTexFormats = map[TexFormats]vk.Format{
	UndefTexFormat: vk.FormatUndefined,
	R8Unorm:        vk.FormatR8Unorm,
	Rg8Unorm:       vk.FormatR8g8Unorm,
	R16Unorm:       vk.FormatR16Unorm,
	Rg16Unorm:      vk.FormatR16g16Unorm,
	Rgba8Unorm:     vk.FormatR8g8b8a8Unorm,
	Rgba8Srgb:      vk.FormatR8g8b8a8Srgb,
	Bgra8Unorm:     vk.FormatB8g8r8a8Unorm,
	Bgra8Srgb:      vk.FormatB8g8r8a8Srgb,
	Rgb10a2Unorm:   vk.FormatA2b10g10r10UnormPack32,
}

var texFormats map[vk.Format]TexFormats

func init() {
	texFormats = make(map[vk.Format]TexFormats, len(VulkanTexFormats))
	for tf, f := range VulkanTexFormats {
		if tf == UndefTexFormat {
			continue
		}
		texFormats[f] = tf
	}
}

// FormatTexFormat returns the renderer format for a Vulkan format.
func FormatTexFormat(f vk.Format) (TexFormats, error) {
	if tf, has := texFormats[f]; has {
		return tf, nil
	}
	return UndefTexFormat, fmt.Errorf("%w: vk format %d", ErrRendererIncompatibleFormat, f)
}

// ModifierProperties describes one tiling modifier supported by the
// device for a given format.
type ModifierProperties struct {
	// the modifier code
	Modifier Modifier

	// number of memory planes the modifier splits an image into
	PlaneCount uint32

	// format features supported under this modifier
	TilingFeatures vk.FormatFeatureFlags
}

// DRMModifiers returns the tiling modifiers the device supports for
// the given format, using the standard two-call pattern.
func (gp *GPU) DRMModifiers(format vk.Format) []ModifierProperties {
	return drmModifierList(&gp.procs, gp.GPU, format)
}

// CheckImageModifier verifies that a 2D image of the given format,
// modifier, and usage can actually be created on the device.
func (gp *GPU) CheckImageModifier(format vk.Format, mod Modifier, usage vk.ImageUsageFlags) error {
	ret := imageModifierCheck(&gp.procs, gp.GPU, format, mod, usage)
	if ret == vk.ErrorFormatNotSupported {
		return fmt.Errorf("%w: modifier %#x for format %d", ErrModifierInvalid, uint64(mod), format)
	}
	return NewError(ret)
}
