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

	"github.com/stretchr/testify/assert"

	"github.com/reelrank/reelrank/dataset"
)

func genreMovies() []dataset.Movie {
	action := dataset.Tag{Id: "28", Name: "Action"}
	drama := dataset.Tag{Id: "18", Name: "Drama"}
	comedy := dataset.Tag{Id: "35", Name: "Comedy"}
	return []dataset.Movie{
		{Id: "1", Genres: []dataset.Tag{action, drama}},
		{Id: "2", Genres: []dataset.Tag{action, comedy}},
		{Id: "3", Genres: []dataset.Tag{action, drama}},
	}
}

func TestBuildVocabulary(t *testing.T) {
	vocabulary := BuildVocabulary(genreMovies(), func(m dataset.Movie) []dataset.Tag { return m.Genres }, 0)
	// frequency-ranked, ties by ascending id
	assert.Equal(t, []Term{
		{Id: "28", Name: "Action", Count: 3},
		{Id: "18", Name: "Drama", Count: 2},
		{Id: "35", Name: "Comedy", Count: 1},
	}, vocabulary.Terms())
	assert.Equal(t, 3, vocabulary.Len())
}

func TestBuildVocabularyThresholdIsStrict(t *testing.T) {
	// a term must occur strictly more often than the threshold
	vocabulary := BuildVocabulary(genreMovies(), func(m dataset.Movie) []dataset.Tag { return m.Genres }, 2)
	assert.Equal(t, []Term{{Id: "28", Name: "Action", Count: 3}}, vocabulary.Terms())
	vocabulary = BuildVocabulary(genreMovies(), func(m dataset.Movie) []dataset.Tag { return m.Genres }, 3)
	assert.Empty(t, vocabulary.Terms())
}

func TestBuildVocabularyDeterministic(t *testing.T) {
	movies := genreMovies()
	first := BuildVocabulary(movies, func(m dataset.Movie) []dataset.Tag { return m.Genres }, 0)
	second := BuildVocabulary(movies, func(m dataset.Movie) []dataset.Tag { return m.Genres }, 0)
	assert.Equal(t, first.Terms(), second.Terms())
}

func TestBuildVocabulariesOverview(t *testing.T) {
	movies := []dataset.Movie{
		{Id: "1", OverviewTokens: []string{"jedi", "rebel"}},
		{Id: "2", OverviewTokens: []string{"jedi"}},
	}
	vocabularies := BuildVocabularies(movies, Thresholds{Overview: 1})
	assert.Equal(t, []Term{{Id: "jedi", Name: "jedi", Count: 2}}, vocabularies.Overview.Terms())
	assert.Zero(t, vocabularies.Genres.Len())
}
