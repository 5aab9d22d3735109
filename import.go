// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// Textures is the owning registry of imported textures for one
// device.  Import registers, Delete releases and unregisters, and
// Transfer moves ownership of all registered images between the
// external producer and the local queue family.  The mutex guards
// the registry so descriptors can be handed over from other
// goroutines, while the Vulkan calls themselves stay on the render
// thread.
type Textures struct {
	// our GPU, with the device the textures are imported into
	GP *GPU

	sync.Mutex

	// registered textures
	List map[*Texture]struct{}
}

// NewTextures returns a new registry importing into the given GPU's
// device.
func NewTextures(gp *GPU) *Textures {
	return &Textures{GP: gp, List: make(map[*Texture]struct{})}
}

// Import imports the described DMA-BUF buffer as a texture bound
// directly to the producer's memory, and registers it.
// On success the plane fds are owned by the driver; on failure they
// are closed, no texture is registered, and the returned error wraps
// one of the Err* values.  A failed import has no effect on the
// registry or on later imports.
func (txs *Textures) Import(dtx *Dmatex, usage TexUsages) (*Texture, error) {
	tx, err := txs.doImport(dtx, usage)
	if err != nil {
		dtx.CloseFDs()
		return nil, err
	}
	txs.Lock()
	txs.List[tx] = struct{}{}
	txs.Unlock()
	return tx, nil
}

func (txs *Textures) doImport(dtx *Dmatex, usage TexUsages) (*Texture, error) {
	if err := dtx.Validate(); err != nil {
		return nil, err
	}
	format, err := VulkanFormat(dtx.Format)
	if err != nil {
		return nil, err
	}
	if dtx.SRGB {
		// no sRGB sibling is not an error: sample as UNORM
		if sf, has := SRGBFormat(format); has {
			format = sf
		}
	}
	texFmt, err := FormatTexFormat(format)
	if err != nil {
		return nil, err
	}
	if txs.GP == nil || txs.GP.Device.Device == nil {
		return nil, ErrNotVulkan
	}
	gp := txs.GP
	dev := gp.Device.Device

	mod, found := ModifierProperties{}, false
	for _, mp := range gp.DRMModifiers(format) {
		if mp.Modifier == dtx.Modifier {
			mod, found = mp, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: modifier %#x not offered for format %d", ErrModifierInvalid, uint64(dtx.Modifier), format)
	}
	if int(mod.PlaneCount) != len(dtx.Planes) {
		return nil, fmt.Errorf("%w: modifier defines %d planes, descriptor has %d", ErrIncorrectNumberOfPlanes, mod.PlaneCount, len(dtx.Planes))
	}

	usageFlags := usage.VkUsage()
	if err := gp.CheckImageModifier(format, dtx.Modifier, usageFlags); err != nil {
		return nil, err
	}

	disjoint := needsDisjoint(len(dtx.Planes))
	img, err := createImage(dev, dtx, format, usageFlags, disjoint)
	if err != nil {
		return nil, err
	}

	mems, err := importPlanes(gp, dev, img, dtx, disjoint)
	if err != nil {
		vk.DestroyImage(dev, img, nil)
		return nil, err
	}

	if err := bindPlanes(gp, dev, img, mems, disjoint); err != nil {
		freeMems(dev, mems)
		vk.DestroyImage(dev, img, nil)
		return nil, err
	}

	tx := &Texture{
		Usage: usage,
		Image: img,
		Mems:  mems,
		Dev:   dev,
	}
	tx.Format.Size = dtx.Size
	tx.Format.Format = format
	tx.Format.TexFormat = texFmt
	if err := tx.MakeStdView(); err != nil {
		tx.Release()
		return nil, fmt.Errorf("%w: %v", ErrVulkanImageCreationFailed, err)
	}
	return tx, nil
}

// needsDisjoint is true when the buffer's planes live in separate
// memory objects that must be bound per plane aspect.  One plane is
// always bound as a whole image.
func needsDisjoint(nplanes int) bool {
	return nplanes > 1
}

// memoryPlaneAspect returns the DRM memory plane aspect for a plane
// index.
func memoryPlaneAspect(plane int) (vk.ImageAspectFlagBits, error) {
	switch plane {
	case 0:
		return vk.ImageAspectMemoryPlane0Bit, nil
	case 1:
		return vk.ImageAspectMemoryPlane1Bit, nil
	case 2:
		return vk.ImageAspectMemoryPlane2Bit, nil
	case 3:
		return vk.ImageAspectMemoryPlane3Bit, nil
	default:
		return 0, fmt.Errorf("%w: plane index %d", ErrIncorrectNumberOfPlanes, plane)
	}
}

// createImage creates the 2D image with modifier tiling and external
// memory, with the producer's plane layouts given explicitly.
func createImage(dev vk.Device, dtx *Dmatex, format vk.Format, usage vk.ImageUsageFlags, disjoint bool) (vk.Image, error) {
	modInfo, freeModInfo := drmExplicitLayoutChain(dtx)
	defer freeModInfo()
	extInfo := vk.ExternalMemoryImageCreateInfo{
		SType:       vk.StructureTypeExternalMemoryImageCreateInfo,
		PNext:       modInfo,
		HandleTypes: vk.ExternalMemoryHandleTypeFlags(vk.ExternalMemoryHandleTypeDmaBufBit),
	}
	var flags vk.ImageCreateFlags
	if disjoint {
		flags = vk.ImageCreateFlags(vk.ImageCreateDisjointBit)
	}
	var img vk.Image
	ret := vk.CreateImage(dev, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		PNext:         unsafe.Pointer(&extInfo),
		Flags:         flags,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: uint32(dtx.Size.X), Height: uint32(dtx.Size.Y), Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingDrmFormatModifier,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img)
	if IsError(ret) {
		return nil, fmt.Errorf("%w: %v", ErrVulkanImageCreationFailed, NewError(ret))
	}
	return img, nil
}

// SelectMemoryType returns the lowest memory type index that is set
// in typeBits and has none of the forbidden property flags.
// Imported planes must not land in protected or lazily allocated
// memory.
func SelectMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32) (int, error) {
	forbidden := vk.MemoryPropertyFlags(vk.MemoryPropertyProtectedBit | vk.MemoryPropertyLazilyAllocatedBit)
	for i := uint32(0); i < props.MemoryTypeCount; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		if props.MemoryTypes[i].PropertyFlags&forbidden == 0 {
			return int(i), nil
		}
	}
	return -1, fmt.Errorf("%w: type bits %#x", ErrNoValidMemoryTypes, typeBits)
}

// importPlaneMemory allocates device memory importing the given fd.
// On success the driver owns the fd.
func importPlaneMemory(dev vk.Device, img vk.Image, fd int, size vk.DeviceSize, typeIndex int, dedicated bool) (vk.DeviceMemory, error) {
	impInfo := vk.ImportMemoryFdInfo{
		SType:      vk.StructureTypeImportMemoryFdInfo,
		HandleType: vk.ExternalMemoryHandleTypeDmaBufBit,
		Fd:         int32(fd),
	}
	if dedicated {
		impInfo.PNext = unsafe.Pointer(&vk.MemoryDedicatedAllocateInfo{
			SType: vk.StructureTypeMemoryDedicatedAllocateInfo,
			Image: img,
		})
	}
	var mem vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           unsafe.Pointer(&impInfo),
		AllocationSize:  size,
		MemoryTypeIndex: uint32(typeIndex),
	}, nil, &mem)
	if IsError(ret) {
		return nil, fmt.Errorf("%w: %v", ErrVulkanMemoryAllocFailed, NewError(ret))
	}
	return mem, nil
}

// importPlanes imports each plane's fd into its own device memory
// (or the single fd for a non-disjoint image).  Fds of imported
// planes are marked consumed on the descriptor; on error the memory
// imported so far is freed and the remaining fds stay with the
// descriptor for the caller's cleanup.
func importPlanes(gp *GPU, dev vk.Device, img vk.Image, dtx *Dmatex, disjoint bool) ([]vk.DeviceMemory, error) {
	nmem := 1
	if disjoint {
		nmem = len(dtx.Planes)
	}
	mems := make([]vk.DeviceMemory, 0, nmem)
	for i := 0; i < nmem; i++ {
		size, typeBits, dedicated, err := imagePlaneRequirements(&gp.procs, dev, img, i, disjoint)
		if err != nil {
			freeMems(dev, mems)
			return nil, err
		}
		typeIndex, err := SelectMemoryType(gp.MemoryProperties, typeBits)
		if err != nil {
			freeMems(dev, mems)
			return nil, err
		}
		mem, err := importPlaneMemory(dev, img, dtx.Planes[i].FD, size, typeIndex, dedicated)
		if err != nil {
			freeMems(dev, mems)
			return nil, err
		}
		dtx.Planes[i].FD = -1 // consumed by the driver
		mems = append(mems, mem)
	}
	return mems, nil
}

// bindPlanes binds all imported memory to the image in a single
// vkBindImageMemory2 call, per plane aspect when disjoint.
func bindPlanes(gp *GPU, dev vk.Device, img vk.Image, mems []vk.DeviceMemory, disjoint bool) error {
	ret, err := bindImagePlanes(&gp.procs, dev, img, mems, disjoint)
	if err != nil {
		return err
	}
	if IsError(ret) {
		return fmt.Errorf("%w: %v", ErrVulkanImageMemoryBindFailed, NewError(ret))
	}
	return nil
}

func freeMems(dev vk.Device, mems []vk.DeviceMemory) {
	for _, mem := range mems {
		if mem != nil {
			vk.FreeMemory(dev, mem, nil)
		}
	}
}

// Delete releases the texture and removes it from the registry.
// Releasing is idempotent, so deleting an unregistered texture is
// harmless.
func (txs *Textures) Delete(tx *Texture) {
	txs.Lock()
	delete(txs.List, tx)
	txs.Unlock()
	tx.Release()
}

// Destroy releases all registered textures and empties the registry.
// The GPU itself is not destroyed.
func (txs *Textures) Destroy() {
	txs.Lock()
	defer txs.Unlock()
	for tx := range txs.List {
		tx.Release()
	}
	txs.List = make(map[*Texture]struct{})
}
