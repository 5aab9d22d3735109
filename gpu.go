// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vdmabuf

import (
	"errors"
	"log"
	"strings"

	vk "github.com/goki/vulkan"
)

// GPU represents the Vulkan instance and physical device, with the
// extensions and cached properties that buffer import needs.
type GPU struct {
	// vulkan instance
	Instance vk.Instance

	// the physical device
	GPU vk.PhysicalDevice

	// the logical device and its graphics queue
	Device Device

	// name of the physical device
	DeviceName string

	// our instance extensions, found from the required set
	InstanceExts []string

	// our device extensions, found from the required set
	DeviceExts []string

	// validation layers in effect
	ValidationLayers []string

	// set to true prior to Config for validation layers
	Debug bool

	// properties of the physical device
	GPUProperties vk.PhysicalDeviceProperties

	// memory properties of the physical device, used to select
	// memory types for imported planes
	MemoryProperties vk.PhysicalDeviceMemoryProperties

	// resolved 1.1/1.2 command pointers for this instance
	procs vkProcs
}

// RequiredInstanceExts are the instance extensions needed for the
// physical-device property queries that modifier negotiation uses.
// Core in 1.1, but some loaders still want it requested.
func RequiredInstanceExts() []string {
	return []string{
		vk.KhrGetPhysicalDeviceProperties2ExtensionName,
	}
}

// RequiredDeviceExts are the device extensions that DMA-BUF import
// needs.  VK_KHR_external_memory is core in 1.1 but listed for
// drivers that still advertise it.
func RequiredDeviceExts() []string {
	return []string{
		vk.KhrSwapchainExtensionName,
		vk.ExtImageDrmFormatModifierExtensionName,
		vk.ExtExternalMemoryDmaBufExtensionName,
		vk.KhrExternalMemoryFdExtensionName,
		vk.KhrExternalMemoryExtensionName,
		vk.KhrImageFormatListExtensionName,
	}
}

// NewGPU returns a new GPU, ready for Config.
func NewGPU() *GPU {
	return &GPU{}
}

// Config configures the instance, selects the physical device, and
// creates the logical device with the import extensions enabled.
// Init must have been called first.
func (gp *GPU) Config(name string) error {
	err := gp.ConfigInstance(name)
	if err != nil {
		return err
	}
	err = gp.loadProcs()
	if err != nil {
		return err
	}
	err = gp.SelectGPU()
	if err != nil {
		return err
	}
	return gp.Device.Init(gp, vk.QueueGraphicsBit)
}

// ConfigInstance creates the vulkan instance.
func (gp *GPU) ConfigInstance(name string) error {
	req := SafeStrings(RequiredInstanceExts())
	act, err := AvailInstanceExts()
	if err != nil {
		return err
	}
	missing := 0
	gp.InstanceExts, missing = CheckExisting(act, req)
	if missing > 0 {
		log.Println("vulkan warning: missing", missing, "required instance extensions during init")
	}

	if gp.Debug {
		req = SafeStrings([]string{"VK_LAYER_KHRONOS_validation"})
		act, err = AvailValidationLayers()
		if err != nil {
			return err
		}
		gp.ValidationLayers, missing = CheckExisting(act, req)
		if missing > 0 {
			log.Println("vulkan warning: missing", missing, "requested validation layers during init")
		}
	}

	var inst vk.Instance
	err = NewError(vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.MakeVersion(1, 2, 0),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PApplicationName:   SafeString(name),
			PEngineName:        "vdmabuf\x00",
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &inst))
	if err != nil {
		return err
	}
	gp.Instance = inst
	vk.InitInstance(inst)
	return nil
}

// SelectGPU selects the physical device and caches its properties,
// and resolves the required device extensions against what it offers.
func (gp *GPU) SelectGPU() error {
	var gpuCount uint32
	err := NewError(vk.EnumeratePhysicalDevices(gp.Instance, &gpuCount, nil))
	if err != nil {
		return err
	}
	if gpuCount == 0 {
		return errors.New("vulkan error: no GPU devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	err = NewError(vk.EnumeratePhysicalDevices(gp.Instance, &gpuCount, gpus))
	if err != nil {
		return err
	}
	gp.GPU = gpus[0]

	vk.GetPhysicalDeviceProperties(gp.GPU, &gp.GPUProperties)
	gp.GPUProperties.Deref()
	gp.DeviceName = vk.ToString(gp.GPUProperties.DeviceName[:])
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProperties)
	gp.MemoryProperties.Deref()

	req := SafeStrings(RequiredDeviceExts())
	act, err := AvailDeviceExts(gp.GPU)
	if err != nil {
		return err
	}
	missing := 0
	gp.DeviceExts, missing = CheckExisting(act, req)
	if missing > 0 {
		log.Println("vulkan warning: missing", missing, "required device extensions during init")
	}
	return nil
}

// Destroy destroys the device and instance.
func (gp *GPU) Destroy() {
	gp.Device.Destroy()
	if gp.Instance != nil {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = nil
	}
}

// AvailInstanceExts returns the instance extensions available on the
// platform.
func AvailInstanceExts() (names []string, err error) {
	var count uint32
	err = NewError(vk.EnumerateInstanceExtensionProperties("", &count, nil))
	if err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	err = NewError(vk.EnumerateInstanceExtensionProperties("", &count, list))
	if err != nil {
		return nil, err
	}
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// AvailDeviceExts returns the device extensions available on the
// given physical device.
func AvailDeviceExts(gpu vk.PhysicalDevice) (names []string, err error) {
	var count uint32
	err = NewError(vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil))
	if err != nil {
		return nil, err
	}
	list := make([]vk.ExtensionProperties, count)
	err = NewError(vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list))
	if err != nil {
		return nil, err
	}
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// AvailValidationLayers returns the validation layers available on
// the platform.
func AvailValidationLayers() (names []string, err error) {
	var count uint32
	err = NewError(vk.EnumerateInstanceLayerProperties(&count, nil))
	if err != nil {
		return nil, err
	}
	list := make([]vk.LayerProperties, count)
	err = NewError(vk.EnumerateInstanceLayerProperties(&count, list))
	if err != nil {
		return nil, err
	}
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

// SafeString returns a string safe for passing to vulkan,
// with a trailing null byte.
func SafeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

// SafeStrings null-terminates each string in the list.
func SafeStrings(list []string) []string {
	for i := range list {
		list[i] = SafeString(list[i])
	}
	return list
}

// CheckExisting returns the subset of required names that exist in
// the actual list, and how many are missing.
func CheckExisting(actual, required []string) (existing []string, missing int) {
	for _, req := range required {
		found := false
		for _, act := range actual {
			if strings.TrimSuffix(req, "\x00") == act {
				existing = append(existing, req)
				found = true
				break
			}
		}
		if !found {
			missing++
		}
	}
	return existing, missing
}
