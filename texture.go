// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"image"

	vk "github.com/goki/vulkan"
)

// ImageFormat describes the size and format of an imported Texture.
type ImageFormat struct {
	// Size of image
	Size image.Point

	// Vulkan image format, after any sRGB sibling substitution
	Format vk.Format

	// renderer-level format corresponding to Format
	TexFormat TexFormats
}

// Size32 returns size as uint32 values
func (im *ImageFormat) Size32() (width, height uint32) {
	width = uint32(im.Size.X)
	height = uint32(im.Size.Y)
	return
}

// TexUsages are the ways an imported texture will be used, which
// determine the image usage flags it is created with.
type TexUsages int32

const (
	// TexSampled is for textures sampled in shaders, e.g. client
	// buffers composited into a scene.
	TexSampled TexUsages = iota

	// TexRenderTarget is for textures rendered into and handed back,
	// e.g. screencopy targets.
	TexRenderTarget

	TexUsagesN
)

//go:generate stringer -type=TexUsages

// VkUsage returns the Vulkan image usage flags for the usage.
func (tu TexUsages) VkUsage() vk.ImageUsageFlags {
	return VulkanTexUsages[tu]
}

var VulkanTexUsages = map[TexUsages]vk.ImageUsageFlags{
	TexSampled:      vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferSrcBit),
	TexRenderTarget: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
}

// Texture is an imported DMA-BUF image with its view and the device
// memory objects bound to it (one per plane when disjoint).
// The Texture owns all of its Vulkan objects.
type Texture struct {
	// name for debugging, if set by the caller
	Name string

	// format & size of the image
	Format ImageFormat

	// how the texture is used, set at import
	Usage TexUsages

	// vulkan image handle bound to the imported memory
	Image vk.Image

	// standard 2D view onto Image
	View vk.ImageView

	// imported device memory, one per memory plane when disjoint
	Mems []vk.DeviceMemory

	// keep track of device for releasing
	Dev vk.Device
}

// MakeStdView makes a standard 2D color image view for the current
// image, format, and device.
func (tx *Texture) MakeStdView() error {
	var view vk.ImageView
	ret := vk.CreateImageView(tx.Dev, &vk.ImageViewCreateInfo{
		SType:  vk.StructureTypeImageViewCreateInfo,
		Format: tx.Format.Format,
		Components: vk.ComponentMapping{ // this is the default anyway
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
		ViewType: vk.ImageViewType2d,
		Image:    tx.Image,
	}, nil, &view)
	if err := NewError(ret); err != nil {
		return err
	}
	tx.View = view
	return nil
}

// Release frees the imported memory and destroys the view and image.
// It is idempotent: the first call releases everything, later calls
// are no-ops.  The producer's fds were consumed by the import, so
// this is the single release path for the buffer.
func (tx *Texture) Release() {
	if tx.View != nil {
		vk.DestroyImageView(tx.Dev, tx.View, nil)
		tx.View = nil
	}
	for i, mem := range tx.Mems {
		if mem != nil {
			vk.FreeMemory(tx.Dev, mem, nil)
			tx.Mems[i] = nil
		}
	}
	tx.Mems = nil
	if tx.Image != nil {
		vk.DestroyImage(tx.Dev, tx.Image, nil)
		tx.Image = nil
	}
}
