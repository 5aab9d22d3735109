// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vdmabuf

import (
	vk "github.com/goki/vulkan"
)

// CmdPool is a command pool and buffer
type CmdPool struct {
	Pool vk.CommandPool
	Buff vk.CommandBuffer
}

// ConfigTransient configures the pool for transient command buffers,
// used for ownership transfer barriers.
func (cp *CmdPool) ConfigTransient(dv *Device) {
	cp.Init(dv, vk.CommandPoolCreateTransientBit)
}

// Init initializes the pool
func (cp *CmdPool) Init(dv *Device, flags vk.CommandPoolCreateFlagBits) {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(flags),
	}, nil, &cmdPool)
	IfPanic(NewError(ret))
	cp.Pool = cmdPool
}

// NewBuffer allocates a new primary command buffer in the pool.
func (cp *CmdPool) NewBuffer(dv *Device) vk.CommandBuffer {
	var cmdBuff = make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	IfPanic(NewError(ret))
	cp.Buff = cmdBuff[0]
	return cp.Buff
}

// BeginCmdOneTime starts recording the buffer for one-time submit.
func (cp *CmdPool) BeginCmdOneTime() vk.CommandBuffer {
	ret := vk.BeginCommandBuffer(cp.Buff, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
	return cp.Buff
}

// EndCmd ends recording.
func (cp *CmdPool) EndCmd() error {
	return NewError(vk.EndCommandBuffer(cp.Buff))
}

// SubmitSignal ends recording and submits the buffer to the device
// queue, signalling the given timeline semaphore with value when
// execution completes.  The timeline chain is built in C layout so
// the driver reads the signal value, not a Go slice header.
func (cp *CmdPool) SubmitSignal(dv *Device, sem vk.Semaphore, value uint64) error {
	err := cp.EndCmd()
	if err != nil {
		return err
	}
	tsInfo, freeTsInfo := timelineSubmitChain(value)
	defer freeTsInfo()
	ret := vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		PNext:                tsInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cp.Buff},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{sem},
	}}, vk.NullFence)
	return NewError(ret)
}

// FreeBuffer frees the allocated buffer, if any.
func (cp *CmdPool) FreeBuffer(dv *Device) {
	if cp.Buff == nil {
		return
	}
	vk.FreeCommandBuffers(dv.Device, cp.Pool, 1, []vk.CommandBuffer{cp.Buff})
	cp.Buff = nil
}

// Destroy destroys the pool and any buffer in it.
func (cp *CmdPool) Destroy(dv *Device) {
	if cp.Pool == nil {
		return
	}
	cp.FreeBuffer(dv)
	vk.DestroyCommandPool(dv.Device, cp.Pool, nil)
	cp.Pool = nil
}
