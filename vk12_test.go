// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdmabuf

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimelineSubmitChain(t *testing.T) {
	p, free := timelineSubmitChain(7)
	defer free()
	assert.NotNil(t, p)
	assert.Equal(t, uint64(7), timelineSignalValue(p))
}

func TestDrmExplicitLayoutChain(t *testing.T) {
	dtx := &Dmatex{
		Planes: []Plane{
			{FD: -1, Offset: 0, Stride: 256},
			{FD: -1, Offset: 16384, Stride: 128},
			{FD: -1, Offset: 24576, Stride: 128},
		},
		Size:     image.Point{X: 64, Y: 64},
		Modifier: ModifierLinear,
	}
	p, free := drmExplicitLayoutChain(dtx)
	defer free()
	assert.NotNil(t, p)
	assert.Equal(t, uint64(ModifierLinear), explicitLayoutModifier(p))
	assert.Equal(t, uint32(3), explicitLayoutCount(p))
	for i, pl := range dtx.Planes {
		offset, rowPitch := explicitLayoutPlane(p, i)
		assert.Equal(t, uint64(pl.Offset), offset)
		assert.Equal(t, uint64(pl.Stride), rowPitch)
	}
}
