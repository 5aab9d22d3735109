// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

// Fourcc is a little-endian packed DRM pixel format code,
// as defined in drm_fourcc.h.
type Fourcc uint32

// String returns the four-character code, e.g. "XR24".
func (fc Fourcc) String() string {
	return string([]byte{byte(fc), byte(fc >> 8), byte(fc >> 16), byte(fc >> 24)})
}

// DRM fourcc format codes used by the format mapping.
// Component order in the name is from most to least significant bit,
// within a little-endian word.
const (
	FourccR8  Fourcc = 'R' | '8'<<8 | ' '<<16 | ' '<<24
	FourccR16 Fourcc = 'R' | '1'<<8 | '6'<<16 | ' '<<24

	FourccRG88   Fourcc = 'R' | 'G'<<8 | '8'<<16 | '8'<<24
	FourccGR88   Fourcc = 'G' | 'R'<<8 | '8'<<16 | '8'<<24
	FourccRG1616 Fourcc = 'R' | 'G'<<8 | '3'<<16 | '2'<<24
	FourccGR1616 Fourcc = 'G' | 'R'<<8 | '3'<<16 | '2'<<24

	FourccRGB565 Fourcc = 'R' | 'G'<<8 | '1'<<16 | '6'<<24
	FourccBGR565 Fourcc = 'B' | 'G'<<8 | '1'<<16 | '6'<<24

	FourccRGB888 Fourcc = 'R' | 'G'<<8 | '2'<<16 | '4'<<24
	FourccBGR888 Fourcc = 'B' | 'G'<<8 | '2'<<16 | '4'<<24

	FourccARGB8888 Fourcc = 'A' | 'R'<<8 | '2'<<16 | '4'<<24
	FourccXRGB8888 Fourcc = 'X' | 'R'<<8 | '2'<<16 | '4'<<24
	FourccABGR8888 Fourcc = 'A' | 'B'<<8 | '2'<<16 | '4'<<24
	FourccXBGR8888 Fourcc = 'X' | 'B'<<8 | '2'<<16 | '4'<<24
	FourccRGBA8888 Fourcc = 'R' | 'A'<<8 | '2'<<16 | '4'<<24
	FourccRGBX8888 Fourcc = 'R' | 'X'<<8 | '2'<<16 | '4'<<24
	FourccBGRA8888 Fourcc = 'B' | 'A'<<8 | '2'<<16 | '4'<<24
	FourccBGRX8888 Fourcc = 'B' | 'X'<<8 | '2'<<16 | '4'<<24

	FourccRGB888A8 Fourcc = 'R' | '8'<<8 | 'A'<<16 | '8'<<24
	FourccBGR888A8 Fourcc = 'B' | '8'<<8 | 'A'<<16 | '8'<<24

	FourccARGB1555 Fourcc = 'A' | 'R'<<8 | '1'<<16 | '5'<<24
	FourccXRGB1555 Fourcc = 'X' | 'R'<<8 | '1'<<16 | '5'<<24
	FourccABGR1555 Fourcc = 'A' | 'B'<<8 | '1'<<16 | '5'<<24
	FourccXBGR1555 Fourcc = 'X' | 'B'<<8 | '1'<<16 | '5'<<24
	FourccRGBA5551 Fourcc = 'R' | 'A'<<8 | '1'<<16 | '5'<<24
	FourccRGBX5551 Fourcc = 'R' | 'X'<<8 | '1'<<16 | '5'<<24
	FourccBGRA5551 Fourcc = 'B' | 'A'<<8 | '1'<<16 | '5'<<24
	FourccBGRX5551 Fourcc = 'B' | 'X'<<8 | '1'<<16 | '5'<<24

	FourccARGB4444 Fourcc = 'A' | 'R'<<8 | '1'<<16 | '2'<<24
	FourccXRGB4444 Fourcc = 'X' | 'R'<<8 | '1'<<16 | '2'<<24
	FourccABGR4444 Fourcc = 'A' | 'B'<<8 | '1'<<16 | '2'<<24
	FourccXBGR4444 Fourcc = 'X' | 'B'<<8 | '1'<<16 | '2'<<24
	FourccRGBA4444 Fourcc = 'R' | 'A'<<8 | '1'<<16 | '2'<<24
	FourccRGBX4444 Fourcc = 'R' | 'X'<<8 | '1'<<16 | '2'<<24
	FourccBGRA4444 Fourcc = 'B' | 'A'<<8 | '1'<<16 | '2'<<24
	FourccBGRX4444 Fourcc = 'B' | 'X'<<8 | '1'<<16 | '2'<<24

	FourccARGB2101010 Fourcc = 'A' | 'R'<<8 | '3'<<16 | '0'<<24
	FourccXRGB2101010 Fourcc = 'X' | 'R'<<8 | '3'<<16 | '0'<<24
	FourccABGR2101010 Fourcc = 'A' | 'B'<<8 | '3'<<16 | '0'<<24
	FourccXBGR2101010 Fourcc = 'X' | 'B'<<8 | '3'<<16 | '0'<<24
)

// Modifier is a 64-bit DRM format modifier describing the tiling and
// compression layout of a buffer: vendor code in the top 8 bits,
// vendor-specific layout code below.
type Modifier uint64

const (
	// ModifierLinear is plain row-major layout.
	ModifierLinear Modifier = 0

	// ModifierInvalid means the producer did not communicate a
	// modifier; such buffers cannot be imported with explicit layout.
	ModifierInvalid Modifier = (1 << 56) - 1
)
