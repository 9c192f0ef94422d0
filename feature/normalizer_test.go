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

package feature

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"

	"github.com/reelrank/reelrank/common/floats"
	"github.com/reelrank/reelrank/dataset"
)

const epsilon = 1e-6

func TestFitCoefficientsSkipsIncompleteRows(t *testing.T) {
	x := [][]float32{
		{100, 1, 1, 1, 1, 1, 2000, 1},
		{200, 2, 2, 2, 2, 2, 2010, 0},
		{Missing(), 3, 3, 3, 3, 3, 2020, 1},
	}
	coefficients := FitCoefficients(x)
	// scalar columns accumulate complete rows only
	assert.InDelta(t, 150, coefficients.Means[0], epsilon)
	assert.InDelta(t, 100, coefficients.Ranges[0], epsilon)
	assert.InDelta(t, 1.5, coefficients.Means[1], epsilon)
	assert.InDelta(t, 2005, coefficients.Means[6], epsilon)
	// non-scalar columns accumulate every row
	assert.InDelta(t, 2.0/3.0, coefficients.Means[7], epsilon)
	assert.InDelta(t, 1, coefficients.Ranges[7], epsilon)
}

func TestImpute(t *testing.T) {
	x := [][]float32{
		{100, 1, 1, 1, 1, 1, 2000, 1},
		{200, 2, 2, 2, 2, 2, 2010, 0},
		{Missing(), 3, 3, 3, 3, 3, 2020, 1},
	}
	imputed := Impute(x, FitCoefficients(x))
	assert.InDelta(t, 150, imputed[2][0], epsilon)
	// the input matrix is left untouched
	assert.True(t, IsMissing(x[2][0]))
	// present values survive imputation
	assert.Equal(t, float32(3), imputed[2][1])
}

func TestScaleConstantColumn(t *testing.T) {
	x := [][]float32{
		{100, 5, 5, 5, 5, 5, 2000, 1},
		{200, 5, 5, 5, 5, 5, 2010, 1},
	}
	coefficients := FitCoefficients(x)
	scaled := Scale(x, coefficients)
	// constant columns scale to 0, not NaN
	for i := range scaled {
		assert.Equal(t, float32(0), scaled[i][1])
		assert.Equal(t, float32(0), scaled[i][7])
	}
	assert.InDelta(t, -0.5, scaled[0][0], epsilon)
	assert.InDelta(t, 0.5, scaled[1][0], epsilon)
}

func TestNormalizeSingleRow(t *testing.T) {
	// a corpus of one movie has zero range everywhere
	x := [][]float32{{100, 1, 1, 1, 1, 1, 2000, 1, 0, 1}}
	normalized, _ := Normalize(x)
	for _, value := range normalized[0] {
		assert.Equal(t, float32(0), value)
	}
}

func TestNormalizeSharedGenreSimilarity(t *testing.T) {
	action := dataset.Tag{Id: "28", Name: "Action"}
	drama := dataset.Tag{Id: "18", Name: "Drama"}
	movies := []dataset.Movie{
		{Id: "A", Budget: mo.Some[float32](100), Genres: []dataset.Tag{action}},
		{Id: "B", Budget: mo.Some[float32](200), Genres: []dataset.Tag{action}},
		{Id: "C", Genres: []dataset.Tag{drama}},
	}
	vectorizer := NewVectorizer(BuildVocabularies(movies, Thresholds{}), "en")
	x, err := vectorizer.Matrix(movies, 1)
	assert.NoError(t, err)
	normalized, _ := Normalize(x)

	simAB := floats.Cosine(normalized[0], normalized[1])
	simAC := floats.Cosine(normalized[0], normalized[2])
	simBC := floats.Cosine(normalized[1], normalized[2])
	assert.Greater(t, simAB, simAC)
	assert.Greater(t, simAB, simBC)
}
