// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && !android

package vdmabuf

import (
	"cogentcore.org/core/base/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// note: this file contains the glfw dependency, which provides the
// vulkan loader entry point on desktop linux.  DMA-BUF import is
// linux-only, so there are no other platform variants.

// Init initializes the vulkan system, using the glfw loader.
// Must be called before anything else, on the main initial thread.
func Init() error {
	err := glfw.Init()
	if err != nil {
		return errors.Log(err)
	}
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	instanceProcAddr = procAddr
	vk.SetGetInstanceProcAddr(procAddr)
	return errors.Log(vk.Init())
}

// Terminate shuts down the vulkan system, as the last thing before
// quitting.  Must be called on the main initial thread.
func Terminate() {
	glfw.Terminate()
}
