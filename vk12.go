// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

/*
#include <stdint.h>
#include <stdlib.h>

// Entry points added in Vulkan 1.1 and 1.2 that the binding does not
// wrap, called through pointers resolved with vkGetInstanceProcAddr.
// The structs are declared here so that pNext chains and in/out
// arrays carry the exact C layout the driver reads and writes: the
// binding's Go structs append bookkeeping fields and use Go slice
// headers, so they must never be chained or used as array elements.
// Handles are pointers on 64-bit linux, dispatchable and
// non-dispatchable alike.

typedef struct VdmFormatProperties {
	uint32_t linearTilingFeatures;
	uint32_t optimalTilingFeatures;
	uint32_t bufferFeatures;
} VdmFormatProperties;

typedef struct VdmFormatProperties2 {
	uint32_t sType;
	void *pNext;
	VdmFormatProperties formatProperties;
} VdmFormatProperties2;

typedef struct VdmDrmFormatModifierProperties {
	uint64_t drmFormatModifier;
	uint32_t drmFormatModifierPlaneCount;
	uint32_t drmFormatModifierTilingFeatures;
} VdmDrmFormatModifierProperties;

typedef struct VdmDrmFormatModifierPropertiesList {
	uint32_t sType;
	void *pNext;
	uint32_t drmFormatModifierCount;
	VdmDrmFormatModifierProperties *pDrmFormatModifierProperties;
} VdmDrmFormatModifierPropertiesList;

typedef struct VdmPhysicalDeviceImageDrmFormatModifierInfo {
	uint32_t sType;
	const void *pNext;
	uint64_t drmFormatModifier;
	uint32_t sharingMode;
	uint32_t queueFamilyIndexCount;
	const uint32_t *pQueueFamilyIndices;
} VdmPhysicalDeviceImageDrmFormatModifierInfo;

typedef struct VdmPhysicalDeviceImageFormatInfo2 {
	uint32_t sType;
	const void *pNext;
	uint32_t format;
	uint32_t imageType;
	uint32_t tiling;
	uint32_t usage;
	uint32_t flags;
} VdmPhysicalDeviceImageFormatInfo2;

typedef struct VdmExtent3D {
	uint32_t width, height, depth;
} VdmExtent3D;

typedef struct VdmImageFormatProperties {
	VdmExtent3D maxExtent;
	uint32_t maxMipLevels;
	uint32_t maxArrayLayers;
	uint32_t sampleCounts;
	uint64_t maxResourceSize;
} VdmImageFormatProperties;

typedef struct VdmImageFormatProperties2 {
	uint32_t sType;
	void *pNext;
	VdmImageFormatProperties imageFormatProperties;
} VdmImageFormatProperties2;

typedef struct VdmImageMemoryRequirementsInfo2 {
	uint32_t sType;
	const void *pNext;
	void *image;
} VdmImageMemoryRequirementsInfo2;

typedef struct VdmImagePlaneMemoryRequirementsInfo {
	uint32_t sType;
	const void *pNext;
	uint32_t planeAspect;
} VdmImagePlaneMemoryRequirementsInfo;

typedef struct VdmMemoryDedicatedRequirements {
	uint32_t sType;
	void *pNext;
	uint32_t prefersDedicatedAllocation;
	uint32_t requiresDedicatedAllocation;
} VdmMemoryDedicatedRequirements;

typedef struct VdmMemoryRequirements {
	uint64_t size;
	uint64_t alignment;
	uint32_t memoryTypeBits;
} VdmMemoryRequirements;

typedef struct VdmMemoryRequirements2 {
	uint32_t sType;
	void *pNext;
	VdmMemoryRequirements memoryRequirements;
} VdmMemoryRequirements2;

typedef struct VdmBindImagePlaneMemoryInfo {
	uint32_t sType;
	const void *pNext;
	uint32_t planeAspect;
} VdmBindImagePlaneMemoryInfo;

typedef struct VdmBindImageMemoryInfo {
	uint32_t sType;
	const void *pNext;
	void *image;
	void *memory;
	uint64_t memoryOffset;
} VdmBindImageMemoryInfo;

typedef struct VdmSemaphoreWaitInfo {
	uint32_t sType;
	const void *pNext;
	uint32_t flags;
	uint32_t semaphoreCount;
	void **pSemaphores;
	const uint64_t *pValues;
} VdmSemaphoreWaitInfo;

typedef struct VdmTimelineSemaphoreSubmitInfo {
	uint32_t sType;
	const void *pNext;
	uint32_t waitSemaphoreValueCount;
	const uint64_t *pWaitSemaphoreValues;
	uint32_t signalSemaphoreValueCount;
	const uint64_t *pSignalSemaphoreValues;
} VdmTimelineSemaphoreSubmitInfo;

typedef struct VdmSubresourceLayout {
	uint64_t offset;
	uint64_t size;
	uint64_t rowPitch;
	uint64_t arrayPitch;
	uint64_t depthPitch;
} VdmSubresourceLayout;

typedef struct VdmImageDrmFormatModifierExplicitCreateInfo {
	uint32_t sType;
	const void *pNext;
	uint64_t drmFormatModifier;
	uint32_t drmFormatModifierPlaneCount;
	const VdmSubresourceLayout *pPlaneLayouts;
} VdmImageDrmFormatModifierExplicitCreateInfo;

static void *vdmGetProc(void *getInstanceProcAddr, void *instance, const char *name) {
	return (void *)((void *(*)(void *, const char *))getInstanceProcAddr)(instance, name);
}

static void vdmGetPhysicalDeviceFormatProperties2(void *fp, void *physDev, uint32_t format, VdmFormatProperties2 *props) {
	((void (*)(void *, uint32_t, VdmFormatProperties2 *))fp)(physDev, format, props);
}

static int32_t vdmGetPhysicalDeviceImageFormatProperties2(void *fp, void *physDev, const VdmPhysicalDeviceImageFormatInfo2 *info, VdmImageFormatProperties2 *props) {
	return ((int32_t (*)(void *, const VdmPhysicalDeviceImageFormatInfo2 *, VdmImageFormatProperties2 *))fp)(physDev, info, props);
}

static void vdmGetImageMemoryRequirements2(void *fp, void *dev, const VdmImageMemoryRequirementsInfo2 *info, VdmMemoryRequirements2 *reqs) {
	((void (*)(void *, const VdmImageMemoryRequirementsInfo2 *, VdmMemoryRequirements2 *))fp)(dev, info, reqs);
}

static int32_t vdmBindImageMemory2(void *fp, void *dev, uint32_t n, const VdmBindImageMemoryInfo *binds) {
	return ((int32_t (*)(void *, uint32_t, const VdmBindImageMemoryInfo *))fp)(dev, n, binds);
}

static int32_t vdmWaitSemaphores(void *fp, void *dev, const VdmSemaphoreWaitInfo *info, uint64_t timeout) {
	return ((int32_t (*)(void *, const VdmSemaphoreWaitInfo *, uint64_t))fp)(dev, info, timeout);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// instanceProcAddr is the loader's vkGetInstanceProcAddr, set by
// Init, used to resolve the commands above.
var instanceProcAddr unsafe.Pointer

// vkProcs holds the resolved command pointers for one instance.
type vkProcs struct {
	getPhysicalDeviceFormatProperties2      unsafe.Pointer
	getPhysicalDeviceImageFormatProperties2 unsafe.Pointer
	getImageMemoryRequirements2             unsafe.Pointer
	bindImageMemory2                        unsafe.Pointer
	waitSemaphores                          unsafe.Pointer
}

// loadProcs resolves the 1.1/1.2 commands against the instance.
// Init must have been called, and the instance created with api
// version 1.2 so the core names resolve.
func (gp *GPU) loadProcs() error {
	if instanceProcAddr == nil {
		return fmt.Errorf("vulkan error: Init must be called before Config")
	}
	load := func(name string) (unsafe.Pointer, error) {
		cnm := C.CString(name)
		defer C.free(unsafe.Pointer(cnm))
		p := C.vdmGetProc(instanceProcAddr, unsafe.Pointer(gp.Instance), cnm)
		if p == nil {
			return nil, fmt.Errorf("vulkan error: %s not available", name)
		}
		return p, nil
	}
	var err error
	if gp.procs.getPhysicalDeviceFormatProperties2, err = load("vkGetPhysicalDeviceFormatProperties2"); err != nil {
		return err
	}
	if gp.procs.getPhysicalDeviceImageFormatProperties2, err = load("vkGetPhysicalDeviceImageFormatProperties2"); err != nil {
		return err
	}
	if gp.procs.getImageMemoryRequirements2, err = load("vkGetImageMemoryRequirements2"); err != nil {
		return err
	}
	if gp.procs.bindImageMemory2, err = load("vkBindImageMemory2"); err != nil {
		return err
	}
	if gp.procs.waitSemaphores, err = load("vkWaitSemaphores"); err != nil {
		return err
	}
	return nil
}

// drmModifierList queries the modifiers the device supports for a
// format, with the two-call pattern over C-layout output arrays.
func drmModifierList(procs *vkProcs, gpu vk.PhysicalDevice, format vk.Format) []ModifierProperties {
	list := (*C.VdmDrmFormatModifierPropertiesList)(C.calloc(1, C.sizeof_VdmDrmFormatModifierPropertiesList))
	defer C.free(unsafe.Pointer(list))
	props := (*C.VdmFormatProperties2)(C.calloc(1, C.sizeof_VdmFormatProperties2))
	defer C.free(unsafe.Pointer(props))
	list.sType = C.uint32_t(vk.StructureTypeDrmFormatModifierPropertiesList)
	props.sType = C.uint32_t(vk.StructureTypeFormatProperties2)
	props.pNext = unsafe.Pointer(list)

	C.vdmGetPhysicalDeviceFormatProperties2(procs.getPhysicalDeviceFormatProperties2,
		unsafe.Pointer(gpu), C.uint32_t(format), props)
	count := uint32(list.drmFormatModifierCount)
	if count == 0 {
		return nil
	}
	arr := (*C.VdmDrmFormatModifierProperties)(C.calloc(C.size_t(count), C.sizeof_VdmDrmFormatModifierProperties))
	defer C.free(unsafe.Pointer(arr))
	list.pDrmFormatModifierProperties = arr
	C.vdmGetPhysicalDeviceFormatProperties2(procs.getPhysicalDeviceFormatProperties2,
		unsafe.Pointer(gpu), C.uint32_t(format), props)

	mps := unsafe.Slice(arr, count)
	mods := make([]ModifierProperties, count)
	for i := range mps {
		mods[i] = ModifierProperties{
			Modifier:       Modifier(mps[i].drmFormatModifier),
			PlaneCount:     uint32(mps[i].drmFormatModifierPlaneCount),
			TilingFeatures: vk.FormatFeatureFlags(mps[i].drmFormatModifierTilingFeatures),
		}
	}
	return mods
}

// imageModifierCheck probes whether a 2D modifier image with the
// given format and usage can be created.
func imageModifierCheck(procs *vkProcs, gpu vk.PhysicalDevice, format vk.Format, mod Modifier, usage vk.ImageUsageFlags) vk.Result {
	modInfo := (*C.VdmPhysicalDeviceImageDrmFormatModifierInfo)(C.calloc(1, C.sizeof_VdmPhysicalDeviceImageDrmFormatModifierInfo))
	defer C.free(unsafe.Pointer(modInfo))
	info := (*C.VdmPhysicalDeviceImageFormatInfo2)(C.calloc(1, C.sizeof_VdmPhysicalDeviceImageFormatInfo2))
	defer C.free(unsafe.Pointer(info))
	props := (*C.VdmImageFormatProperties2)(C.calloc(1, C.sizeof_VdmImageFormatProperties2))
	defer C.free(unsafe.Pointer(props))

	modInfo.sType = C.uint32_t(vk.StructureTypePhysicalDeviceImageDrmFormatModifierInfo)
	modInfo.drmFormatModifier = C.uint64_t(mod)
	modInfo.sharingMode = C.uint32_t(vk.SharingModeExclusive)
	info.sType = C.uint32_t(vk.StructureTypePhysicalDeviceImageFormatInfo2)
	info.pNext = unsafe.Pointer(modInfo)
	info.format = C.uint32_t(format)
	info.imageType = C.uint32_t(vk.ImageType2d)
	info.tiling = C.uint32_t(vk.ImageTilingDrmFormatModifier)
	info.usage = C.uint32_t(usage)
	props.sType = C.uint32_t(vk.StructureTypeImageFormatProperties2)

	ret := C.vdmGetPhysicalDeviceImageFormatProperties2(procs.getPhysicalDeviceImageFormatProperties2,
		unsafe.Pointer(gpu), info, props)
	return vk.Result(ret)
}

// imagePlaneRequirements queries the memory requirements for one
// plane of the image (or the whole image when not disjoint),
// including whether the driver wants a dedicated allocation.
func imagePlaneRequirements(procs *vkProcs, dev vk.Device, img vk.Image, plane int, disjoint bool) (size vk.DeviceSize, typeBits uint32, dedicated bool, err error) {
	info := (*C.VdmImageMemoryRequirementsInfo2)(C.calloc(1, C.sizeof_VdmImageMemoryRequirementsInfo2))
	defer C.free(unsafe.Pointer(info))
	planeInfo := (*C.VdmImagePlaneMemoryRequirementsInfo)(C.calloc(1, C.sizeof_VdmImagePlaneMemoryRequirementsInfo))
	defer C.free(unsafe.Pointer(planeInfo))
	dedReqs := (*C.VdmMemoryDedicatedRequirements)(C.calloc(1, C.sizeof_VdmMemoryDedicatedRequirements))
	defer C.free(unsafe.Pointer(dedReqs))
	memReqs := (*C.VdmMemoryRequirements2)(C.calloc(1, C.sizeof_VdmMemoryRequirements2))
	defer C.free(unsafe.Pointer(memReqs))

	info.sType = C.uint32_t(vk.StructureTypeImageMemoryRequirementsInfo2)
	info.image = unsafe.Pointer(img)
	if disjoint {
		aspect, aerr := memoryPlaneAspect(plane)
		if aerr != nil {
			return 0, 0, false, aerr
		}
		planeInfo.sType = C.uint32_t(vk.StructureTypeImagePlaneMemoryRequirementsInfo)
		planeInfo.planeAspect = C.uint32_t(aspect)
		info.pNext = unsafe.Pointer(planeInfo)
	}
	dedReqs.sType = C.uint32_t(vk.StructureTypeMemoryDedicatedRequirements)
	memReqs.sType = C.uint32_t(vk.StructureTypeMemoryRequirements2)
	memReqs.pNext = unsafe.Pointer(dedReqs)

	C.vdmGetImageMemoryRequirements2(procs.getImageMemoryRequirements2,
		unsafe.Pointer(dev), info, memReqs)

	dedicated = dedReqs.prefersDedicatedAllocation != 0 ||
		dedReqs.requiresDedicatedAllocation != 0
	return vk.DeviceSize(memReqs.memoryRequirements.size),
		uint32(memReqs.memoryRequirements.memoryTypeBits), dedicated, nil
}

// bindImagePlanes binds all imported memory to the image in one
// vkBindImageMemory2 call, per plane aspect when disjoint.
func bindImagePlanes(procs *vkProcs, dev vk.Device, img vk.Image, mems []vk.DeviceMemory, disjoint bool) (vk.Result, error) {
	n := len(mems)
	binds := (*C.VdmBindImageMemoryInfo)(C.calloc(C.size_t(n), C.sizeof_VdmBindImageMemoryInfo))
	defer C.free(unsafe.Pointer(binds))
	planeInfos := (*C.VdmBindImagePlaneMemoryInfo)(C.calloc(C.size_t(n), C.sizeof_VdmBindImagePlaneMemoryInfo))
	defer C.free(unsafe.Pointer(planeInfos))

	bs := unsafe.Slice(binds, n)
	ps := unsafe.Slice(planeInfos, n)
	for i, mem := range mems {
		bs[i].sType = C.uint32_t(vk.StructureTypeBindImageMemoryInfo)
		bs[i].image = unsafe.Pointer(img)
		bs[i].memory = unsafe.Pointer(mem)
		if disjoint {
			aspect, err := memoryPlaneAspect(i)
			if err != nil {
				return vk.Success, err
			}
			ps[i].sType = C.uint32_t(vk.StructureTypeBindImagePlaneMemoryInfo)
			ps[i].planeAspect = C.uint32_t(aspect)
			bs[i].pNext = unsafe.Pointer(&ps[i])
		}
	}
	ret := C.vdmBindImageMemory2(procs.bindImageMemory2,
		unsafe.Pointer(dev), C.uint32_t(n), binds)
	return vk.Result(ret), nil
}

// waitSemaphore blocks until the timeline semaphore reaches value.
func waitSemaphore(procs *vkProcs, dev vk.Device, sem vk.Semaphore, value, timeout uint64) vk.Result {
	info := (*C.VdmSemaphoreWaitInfo)(C.calloc(1, C.sizeof_VdmSemaphoreWaitInfo))
	defer C.free(unsafe.Pointer(info))
	sems := (*unsafe.Pointer)(C.calloc(1, C.size_t(unsafe.Sizeof(uintptr(0)))))
	defer C.free(unsafe.Pointer(sems))
	vals := (*C.uint64_t)(C.calloc(1, C.sizeof_uint64_t))
	defer C.free(unsafe.Pointer(vals))

	*sems = unsafe.Pointer(sem)
	*vals = C.uint64_t(value)
	info.sType = C.uint32_t(vk.StructureTypeSemaphoreWaitInfo)
	info.semaphoreCount = 1
	info.pSemaphores = sems
	info.pValues = vals

	ret := C.vdmWaitSemaphores(procs.waitSemaphores,
		unsafe.Pointer(dev), info, C.uint64_t(timeout))
	return vk.Result(ret)
}

// timelineSubmitChain builds a C-layout VkTimelineSemaphoreSubmitInfo
// signalling the given value, for chaining into a SubmitInfo pNext.
// The returned free func releases the C memory after the submit call.
func timelineSubmitChain(value uint64) (unsafe.Pointer, func()) {
	ts := (*C.VdmTimelineSemaphoreSubmitInfo)(C.calloc(1, C.sizeof_VdmTimelineSemaphoreSubmitInfo))
	vals := (*C.uint64_t)(C.calloc(1, C.sizeof_uint64_t))
	*vals = C.uint64_t(value)
	ts.sType = C.uint32_t(vk.StructureTypeTimelineSemaphoreSubmitInfo)
	ts.signalSemaphoreValueCount = 1
	ts.pSignalSemaphoreValues = vals
	return unsafe.Pointer(ts), func() {
		C.free(unsafe.Pointer(vals))
		C.free(unsafe.Pointer(ts))
	}
}

// timelineSignalValue reads the signal value back from a chain built
// by timelineSubmitChain.
func timelineSignalValue(p unsafe.Pointer) uint64 {
	ts := (*C.VdmTimelineSemaphoreSubmitInfo)(p)
	if ts.signalSemaphoreValueCount == 0 || ts.pSignalSemaphoreValues == nil {
		return 0
	}
	return uint64(*ts.pSignalSemaphoreValues)
}

// drmExplicitLayoutChain builds a C-layout
// VkImageDrmFormatModifierExplicitCreateInfoEXT with one subresource
// layout per plane, for chaining into the image create pNext.
// Size, arrayPitch and depthPitch stay zero: the driver ignores them
// for modifier images.  The returned free func releases the C memory
// after the create call.
func drmExplicitLayoutChain(dtx *Dmatex) (unsafe.Pointer, func()) {
	n := len(dtx.Planes)
	layouts := (*C.VdmSubresourceLayout)(C.calloc(C.size_t(n), C.sizeof_VdmSubresourceLayout))
	ls := unsafe.Slice(layouts, n)
	for i, pl := range dtx.Planes {
		ls[i].offset = C.uint64_t(pl.Offset)
		ls[i].rowPitch = C.uint64_t(pl.Stride)
	}
	mi := (*C.VdmImageDrmFormatModifierExplicitCreateInfo)(C.calloc(1, C.sizeof_VdmImageDrmFormatModifierExplicitCreateInfo))
	mi.sType = C.uint32_t(vk.StructureTypeImageDrmFormatModifierExplicitCreateInfo)
	mi.drmFormatModifier = C.uint64_t(dtx.Modifier)
	mi.drmFormatModifierPlaneCount = C.uint32_t(n)
	mi.pPlaneLayouts = layouts
	return unsafe.Pointer(mi), func() {
		C.free(unsafe.Pointer(layouts))
		C.free(unsafe.Pointer(mi))
	}
}

// explicitLayoutModifier reads the modifier back from a chain built
// by drmExplicitLayoutChain.
func explicitLayoutModifier(p unsafe.Pointer) uint64 {
	return uint64((*C.VdmImageDrmFormatModifierExplicitCreateInfo)(p).drmFormatModifier)
}

// explicitLayoutCount reads the plane count back from a chain built
// by drmExplicitLayoutChain.
func explicitLayoutCount(p unsafe.Pointer) uint32 {
	return uint32((*C.VdmImageDrmFormatModifierExplicitCreateInfo)(p).drmFormatModifierPlaneCount)
}

// explicitLayoutPlane reads one plane's layout back from a chain
// built by drmExplicitLayoutChain.
func explicitLayoutPlane(p unsafe.Pointer, i int) (offset, rowPitch uint64) {
	mi := (*C.VdmImageDrmFormatModifierExplicitCreateInfo)(p)
	ls := unsafe.Slice(mi.pPlaneLayouts, int(mi.drmFormatModifierPlaneCount))
	return uint64(ls[i].offset), uint64(ls[i].rowPitch)
}
