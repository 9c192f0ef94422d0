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

package logics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelrank/reelrank/dataset"
)

func TestRegression_Fit(t *testing.T) {
	// y = 1 + 4x, rows already carry the intercept column.
	rows := [][]float32{
		{1, 0},
		{1, 0.2},
		{1, 0.4},
		{1, 0.6},
		{1, 0.8},
		{1, 1},
	}
	labels := []float32{1, 1.8, 2.6, 3.4, 4.2, 5}
	r := NewRegression(RegressionConfig{LearningRate: 0.03, Iterations: 750})
	theta, costs := r.fit(rows, labels)
	require.Len(t, theta, 2)
	require.Len(t, costs, 750)
	// The cost never increases across logging checkpoints and ends well
	// below where it started.
	for i := 50; i < len(costs); i += 50 {
		assert.LessOrEqual(t, costs[i], costs[i-50])
	}
	assert.Less(t, costs[len(costs)-1], costs[0])
}

func TestRegression_Recommend(t *testing.T) {
	movies := []dataset.Movie{
		{Id: "1"}, {Id: "2"}, {Id: "3"}, {Id: "4"}, {Id: "5"}, {Id: "6"},
	}
	x := [][]float32{{0}, {0.2}, {0.4}, {0.6}, {0.8}, {1}}
	// User 7 rates along y = 1 + 4x and skipped movies 3 and 4.
	ratings := dataset.NewRatingLog([]dataset.Rating{
		{UserId: "7", MovieId: "1", Value: 1},
		{UserId: "7", MovieId: "2", Value: 1.8},
		{UserId: "7", MovieId: "5", Value: 4.2},
		{UserId: "7", MovieId: "6", Value: 5},
	})
	r := NewRegression(RegressionConfig{})
	scores, err := r.Recommend(x, movies, ratings, "7")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	// Movie 4 sits higher on the fitted line than movie 3.
	assert.Equal(t, "4", scores[0].Id)
	assert.Equal(t, "3", scores[1].Id)
	assert.InDelta(t, 3.4, scores[0].Score, 0.5)
	assert.InDelta(t, 2.6, scores[1].Score, 0.5)
}

func TestRegression_Underdetermined(t *testing.T) {
	// More parameters than rated movies. The fit is degenerate but must not
	// produce NaN scores.
	movies := []dataset.Movie{{Id: "1"}, {Id: "2"}, {Id: "3"}}
	x := [][]float32{
		{0.1, 0.5, 0.9},
		{0.4, 0.2, 0.7},
		{0.8, 0.6, 0.3},
	}
	ratings := dataset.NewRatingLog([]dataset.Rating{
		{UserId: "1", MovieId: "1", Value: 5},
		{UserId: "1", MovieId: "2", Value: 2},
	})
	r := NewRegression(RegressionConfig{})
	scores, err := r.Recommend(x, movies, ratings, "1")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "3", scores[0].Id)
	assert.False(t, math32.IsNaN(scores[0].Score))
}

func TestRegression_UnknownUser(t *testing.T) {
	ratings := dataset.NewRatingLog([]dataset.Rating{
		{UserId: "1", MovieId: "1", Value: 5},
	})
	r := NewRegression(RegressionConfig{})
	_, err := r.Recommend([][]float32{{0.5}}, []dataset.Movie{{Id: "1"}}, ratings, "2")
	assert.True(t, errors.IsNotFound(err))

	// A known user whose ratings all point outside the catalog is equally
	// untrainable.
	_, err = r.Recommend([][]float32{{0.5}}, []dataset.Movie{{Id: "9"}}, ratings, "1")
	assert.True(t, errors.IsNotFound(err))
}
