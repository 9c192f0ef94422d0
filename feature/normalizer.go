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
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
)

// Coefficients are the per-column mean and range of a feature matrix.
type Coefficients struct {
	Means  []float32
	Ranges []float32
}

// FitCoefficients computes per-column means and ranges over a feature
// matrix. For the scalar columns, rows carrying any missing marker among
// the scalar columns are excluded from the accumulation; the remaining
// columns never carry markers and accumulate over all rows. A column with
// no contributing rows gets mean 0 and range 0.
func FitCoefficients(x [][]float32) Coefficients {
	if len(x) == 0 {
		return Coefficients{}
	}
	numFeatures := len(x[0])
	sums := make([]float32, numFeatures)
	mins := make([]float32, numFeatures)
	maxs := make([]float32, numFeatures)
	counts := make([]int, numFeatures)
	complete := func(row []float32) bool {
		for k := 0; k < NumScalars && k < len(row); k++ {
			if IsMissing(row[k]) {
				return false
			}
		}
		return true
	}
	for _, row := range x {
		rowComplete := complete(row)
		for k, value := range row {
			if k < NumScalars && !rowComplete {
				continue
			}
			if counts[k] == 0 {
				mins[k], maxs[k] = value, value
			} else {
				if value < mins[k] {
					mins[k] = value
				}
				if value > maxs[k] {
					maxs[k] = value
				}
			}
			sums[k] += value
			counts[k]++
		}
	}
	coefficients := Coefficients{
		Means:  make([]float32, numFeatures),
		Ranges: make([]float32, numFeatures),
	}
	for k := 0; k < numFeatures; k++ {
		if counts[k] > 0 {
			coefficients.Means[k] = sums[k] / float32(counts[k])
			coefficients.Ranges[k] = maxs[k] - mins[k]
		}
	}
	return coefficients
}

// Impute returns a copy of the matrix with missing markers in the scalar
// columns replaced by the column mean.
func Impute(x [][]float32, coefficients Coefficients) [][]float32 {
	out := make([][]float32, len(x))
	for i, row := range x {
		out[i] = make([]float32, len(row))
		copy(out[i], row)
		for k := 0; k < NumScalars && k < len(row); k++ {
			if IsMissing(row[k]) {
				out[i][k] = coefficients.Means[k]
			}
		}
	}
	return out
}

// Scale returns a copy of the matrix with every value mean-centered and
// divided by the column range. Constant columns (range 0) scale to 0
// instead of propagating a non-finite result.
func Scale(x [][]float32, coefficients Coefficients) [][]float32 {
	degenerate := 0
	for k := range coefficients.Ranges {
		if coefficients.Ranges[k] == 0 {
			degenerate++
		}
	}
	if degenerate > 0 {
		log.Logger().Debug("constant feature columns scaled to zero",
			zap.Int("columns", degenerate))
	}
	out := make([][]float32, len(x))
	for i, row := range x {
		out[i] = make([]float32, len(row))
		for k, value := range row {
			if coefficients.Ranges[k] == 0 {
				out[i][k] = 0
			} else {
				out[i][k] = (value - coefficients.Means[k]) / coefficients.Ranges[k]
			}
		}
	}
	return out
}

// Normalize runs the full two-pass pipeline: fit coefficients, impute
// missing scalars, scale. The result has the same shape as the input and
// contains no missing markers.
func Normalize(x [][]float32) ([][]float32, Coefficients) {
	coefficients := FitCoefficients(x)
	return Scale(Impute(x, coefficients), coefficients), coefficients
}
