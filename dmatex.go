// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"fmt"
	"image"

	"golang.org/x/sys/unix"
)

// MaxPlanes is the number of memory plane aspects Vulkan exposes for
// DRM format modifier images.
const MaxPlanes = 4

// Plane is one memory plane of a DMA-BUF buffer.
type Plane struct {
	// dmabuf file descriptor for this plane, owned by the descriptor
	FD int

	// byte offset of the plane within the buffer behind FD
	Offset uint32

	// bytes per row, as reported by the producer
	Stride int32
}

// Dmatex describes an externally produced DMA-BUF buffer to import.
// The descriptor owns its plane fds exclusively: a successful Import
// transfers them to the driver, a failed one closes them.  It must
// not be copied, and the fds must not be duplicated, so that exactly
// one release path exists per buffer.
type Dmatex struct {
	// one entry per memory plane
	Planes []Plane

	// pixel size of the image
	Size image.Point

	// DRM fourcc format code
	Format Fourcc

	// tiling modifier the producer allocated the buffer with
	Modifier Modifier

	// sample the contents as sRGB if the format has an sRGB sibling
	SRGB bool
}

// Validate checks the structure of the descriptor, before any device
// interaction.
func (dx *Dmatex) Validate() error {
	if len(dx.Planes) == 0 {
		return ErrNoPlanes
	}
	if len(dx.Planes) > MaxPlanes {
		return fmt.Errorf("%w: %d planes, max %d", ErrIncorrectNumberOfPlanes, len(dx.Planes), MaxPlanes)
	}
	return nil
}

// CloseFDs closes all plane fds.  Called on the failure path, when
// ownership did not transfer to the driver.
func (dx *Dmatex) CloseFDs() {
	for i := range dx.Planes {
		if dx.Planes[i].FD >= 0 {
			unix.Close(dx.Planes[i].FD)
			dx.Planes[i].FD = -1
		}
	}
}
