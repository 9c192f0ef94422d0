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

// Package logics implements the three prediction strategies: content-based,
// collaborative filtering and linear regression. Every strategy emits the
// same output shape: a ranked list of scores.
package logics

import "sort"

// Score is one entry of a ranked recommendation list.
type Score struct {
	Id    string
	Score float32
}

// sortScores orders scores descending. The sort is stable so ties keep
// their original corpus order.
func sortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}
