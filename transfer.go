// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"math"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// TransferDirs is the direction of a queue-family ownership transfer
// for all registered textures.
type TransferDirs int32

const (
	// TransferAcquire moves ownership from the external producer to
	// the local queue family, before local sampling or rendering.
	TransferAcquire TransferDirs = iota

	// TransferRelease moves ownership back to the external producer,
	// when the frame is done with the buffers.
	TransferRelease

	TransferDirsN
)

//go:generate stringer -type=TransferDirs

// Acquire transfers ownership of all registered textures from the
// external producer to the device queue family.
func (txs *Textures) Acquire() error {
	return txs.Transfer(TransferAcquire)
}

// Release transfers ownership of all registered textures back to the
// external producer.
func (txs *Textures) Release() error {
	return txs.Transfer(TransferRelease)
}

// Transfer records one ownership-transfer barrier per registered
// texture, submits them on the device queue, and blocks on a
// timeline semaphore until the transfer has executed.  With no
// registered textures it returns nil without touching the device.
// On failure the transient objects are destroyed and the registry is
// left unchanged, so the next call starts fresh.
func (txs *Textures) Transfer(dir TransferDirs) (err error) {
	txs.Lock()
	imgs := make([]vk.Image, 0, len(txs.List))
	for tx := range txs.List {
		imgs = append(imgs, tx.Image)
	}
	txs.Unlock()
	if len(imgs) == 0 {
		return nil
	}
	if txs.GP == nil || txs.GP.Device.Device == nil {
		return ErrNotVulkan
	}
	dv := &txs.GP.Device
	dev := dv.Device

	tsInfo := vk.SemaphoreTypeCreateInfo{
		SType:         vk.StructureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: vk.SemaphoreTypeTimeline,
		InitialValue:  0,
	}
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(dev, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: unsafe.Pointer(&tsInfo),
	}, nil, &sem)
	if err = NewError(ret); err != nil {
		return err
	}

	cp := CmdPool{}
	defer func() {
		cp.Destroy(dv)
		vk.DestroySemaphore(dev, sem, nil)
	}()
	defer CheckErr(&err)

	cp.ConfigTransient(dv)
	cp.NewBuffer(dv)
	cmd := cp.BeginCmdOneTime()

	barriers := transferBarriers(imgs, dir, dv.QueueIndex)
	vk.CmdPipelineBarrier(cmd,
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
		0, 0, nil, 0, nil, uint32(len(barriers)), barriers)

	err = cp.SubmitSignal(dv, sem, 1)
	if err != nil {
		return err
	}
	ret = waitSemaphore(&txs.GP.procs, dev, sem, 1, math.MaxUint64)
	return NewError(ret)
}

// transferBarriers returns the queue-family ownership barrier for
// each image in the given direction: Acquire moves external to local,
// Release moves local back to external.  Layouts stay General and
// access masks zero, as the producer and consumer synchronize through
// the transfer itself.
func transferBarriers(imgs []vk.Image, dir TransferDirs, queueIndex uint32) []vk.ImageMemoryBarrier {
	src, dst := uint32(vk.QueueFamilyExternal), queueIndex
	if dir == TransferRelease {
		src, dst = dst, src
	}
	barriers := make([]vk.ImageMemoryBarrier, len(imgs))
	for i, img := range imgs {
		barriers[i] = vk.ImageMemoryBarrier{
			SType:               vk.StructureTypeImageMemoryBarrier,
			OldLayout:           vk.ImageLayoutGeneral,
			NewLayout:           vk.ImageLayoutGeneral,
			SrcQueueFamilyIndex: src,
			DstQueueFamilyIndex: dst,
			Image:               img,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
	}
	return barriers
}
