// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vdmabuf imports Linux DMA-BUF buffers as Vulkan textures with
zero copies, using VK_EXT_image_drm_format_modifier,
VK_EXT_external_memory_dma_buf and VK_KHR_external_memory_fd.

A producer (compositor client, video decoder, camera) hands over a
Dmatex descriptor: one file descriptor per plane, with offsets and
strides, plus a DRM fourcc format, a tiling modifier, the pixel size,
and whether the contents should be sampled as sRGB.  Import binds the
underlying memory directly into a vk.Image, without any staging copy.

Textures is the owning service object: it holds the GPU and Device,
registers every imported Texture, and issues the queue-family
ownership transfers (Acquire before sampling locally, Release to hand
the buffers back to the producer).

Call Init once on the main thread before anything else, then:

	gp := vdmabuf.NewGPU()
	gp.Config("myapp")
	txs := vdmabuf.NewTextures(gp)
	tx, err := txs.Import(dtx, vdmabuf.TexSampled)

Plane file descriptors are owned by the Dmatex: a successful Import
transfers them to the driver, a failed one closes them.  Descriptors
must not be copied and the fds must not be duplicated.
*/
package vdmabuf
