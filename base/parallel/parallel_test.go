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

package parallel

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestParallel(t *testing.T) {
	visited := make([]atomic.Int32, 100)
	err := Parallel(len(visited), 4, func(workerId, jobId int) error {
		visited[jobId].Inc()
		return nil
	})
	assert.NoError(t, err)
	for i := range visited {
		assert.Equal(t, int32(1), visited[i].Load())
	}
}

func TestParallelError(t *testing.T) {
	err := Parallel(100, 4, func(workerId, jobId int) error {
		if jobId == 42 {
			return errors.New("boom")
		}
		return nil
	})
	assert.Error(t, err)
}

func TestBatchParallel(t *testing.T) {
	visited := make([]atomic.Int32, 100)
	err := BatchParallel(len(visited), 4, 7, func(workerId, beginJobId, endJobId int) error {
		for i := beginJobId; i < endJobId; i++ {
			visited[i].Inc()
		}
		return nil
	})
	assert.NoError(t, err)
	for i := range visited {
		assert.Equal(t, int32(1), visited[i].Load())
	}
}

func TestSplit(t *testing.T) {
	a := []int{1, 2, 3, 4, 5}
	chunks := Split(a, 3)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
	chunks = Split(a, 7)
	assert.Len(t, chunks, 5)
}
