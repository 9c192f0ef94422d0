// Copyright 2025 reelrank Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-6

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}
	assert.Equal(t, float32(32), Dot(a, b))
	assert.Panics(t, func() { Dot(a, []float32{1}) })
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5, Norm([]float32{3, 4}), epsilon)
	assert.Zero(t, Norm([]float32{0, 0}))
}

func TestCosine(t *testing.T) {
	a := []float32{1, 2, 3}
	// self similarity is 1
	assert.InDelta(t, 1, Cosine(a, a), epsilon)
	// orthogonal vectors
	assert.InDelta(t, 0, Cosine([]float32{1, 0}, []float32{0, 1}), epsilon)
	// opposite vectors
	assert.InDelta(t, -1, Cosine([]float32{1, 2}, []float32{-1, -2}), epsilon)
	// zero-norm vector
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 2}))
}

func TestMulConstAdd(t *testing.T) {
	dst := []float32{1, 2, 3}
	MulConstAdd([]float32{1, 1, 1}, 2, dst)
	assert.Equal(t, []float32{3, 4, 5}, dst)
}

func TestSubTo(t *testing.T) {
	dst := make([]float32, 3)
	SubTo([]float32{4, 5, 6}, []float32{1, 2, 3}, dst)
	assert.Equal(t, []float32{3, 3, 3}, dst)
}

func TestMulConstTo(t *testing.T) {
	dst := make([]float32, 3)
	MulConstTo([]float32{1, 2, 3}, 2, dst)
	assert.Equal(t, []float32{2, 4, 6}, dst)
}
