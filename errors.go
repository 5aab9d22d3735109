// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vdmabuf

import (
	"errors"
	"fmt"
	"runtime"

	vk "github.com/goki/vulkan"
)

// Import errors. Every failure mode of Textures.Import and
// Textures.Transfer wraps exactly one of these, so callers can
// dispatch with errors.Is and substitute a fallback texture.
var (
	// ErrNoPlanes is returned for a descriptor with no planes.
	ErrNoPlanes = errors.New("dmabuf descriptor has no planes")

	// ErrUnrecognizedFourcc is returned for a fourcc code that is not
	// a known DRM format.
	ErrUnrecognizedFourcc = errors.New("unrecognized DRM fourcc format")

	// ErrVulkanIncompatibleFormat is returned for a known DRM format
	// with no usable Vulkan equivalent.
	ErrVulkanIncompatibleFormat = errors.New("DRM format has no compatible Vulkan format")

	// ErrRendererIncompatibleFormat is returned when the final Vulkan
	// format has no renderer texture format.
	ErrRendererIncompatibleFormat = errors.New("Vulkan format has no compatible renderer format")

	// ErrModifierInvalid is returned when the descriptor's tiling
	// modifier is not supported by the device for the format.
	ErrModifierInvalid = errors.New("DRM format modifier not supported for format")

	// ErrNotVulkan is returned when the GPU or Device has not been
	// initialized, so there is no Vulkan device to import into.
	ErrNotVulkan = errors.New("no initialized Vulkan device")

	// ErrNoValidMemoryTypes is returned when no device memory type
	// can satisfy a plane's requirements.
	ErrNoValidMemoryTypes = errors.New("no valid memory types for import")

	// ErrVulkanImageCreationFailed wraps a vkCreateImage failure.
	ErrVulkanImageCreationFailed = errors.New("vulkan image creation failed")

	// ErrVulkanMemoryAllocFailed wraps a vkAllocateMemory failure on
	// an imported fd.
	ErrVulkanMemoryAllocFailed = errors.New("vulkan memory import failed")

	// ErrVulkanImageMemoryBindFailed wraps a vkBindImageMemory2 failure.
	ErrVulkanImageMemoryBindFailed = errors.New("vulkan image memory bind failed")

	// ErrIncorrectNumberOfPlanes is returned when the plane count is
	// out of range or does not match the modifier's plane count.
	ErrIncorrectNumberOfPlanes = errors.New("incorrect number of planes")
)

func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

func NewError(ret vk.Result) error {
	if ret != vk.Success {
		pc, file, line, ok := runtime.Caller(1)
		if !ok {
			return fmt.Errorf("vulkan error: %s (%d)",
				vk.Error(ret).Error(), ret)
		}
		fnm := "<unknown>"
		if fn := runtime.FuncForPC(pc); fn != nil {
			fnm = fn.Name()
		}
		return fmt.Errorf("vulkan error: %s (%d) on %s (%s:%d)",
			vk.Error(ret).Error(), ret, fnm, file, line)
	}
	return nil
}

func IfPanic(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

func CheckErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}
