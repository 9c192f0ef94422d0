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

// Package feature turns movie records into fixed-length numeric vectors:
// vocabulary building, vectorization and normalization.
package feature

import (
	"sort"

	"github.com/reelrank/reelrank/dataset"
)

// Term is one column-defining entry of a vocabulary.
type Term struct {
	Id    string
	Name  string
	Count int
}

// Vocabulary is a frequency-filtered set of distinct terms of one movie
// attribute. Term order is fixed at build time and determines feature-vector
// column order, so a vocabulary must never be rebuilt once vectorization
// has started.
type Vocabulary struct {
	terms []Term
	index map[string]int
}

// BuildVocabulary counts the terms of one attribute across the corpus and
// keeps the terms whose count is strictly greater than threshold. Terms are
// ordered by descending count, ties by ascending term id, which is stable
// for a fixed corpus and threshold.
func BuildVocabulary(movies []dataset.Movie, attribute func(dataset.Movie) []dataset.Tag, threshold int) *Vocabulary {
	dict := dataset.NewFreqDict()
	names := make(map[string]string)
	for _, movie := range movies {
		for _, tag := range attribute(movie) {
			dict.Add(tag.Id)
			if _, exist := names[tag.Id]; !exist {
				names[tag.Id] = tag.Name
			}
		}
	}
	terms := make([]Term, 0)
	for id := 0; id < dict.Count(); id++ {
		if count := dict.Freq(id); count > threshold {
			term, _ := dict.String(id)
			terms = append(terms, Term{Id: term, Name: names[term], Count: count})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Id < terms[j].Id
	})
	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term.Id] = i
	}
	return &Vocabulary{terms: terms, index: index}
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the terms in column order.
func (v *Vocabulary) Terms() []Term {
	return v.terms
}

// Thresholds are the minimum-occurrence thresholds per attribute. A term
// survives filtering only if its count is strictly greater than the
// threshold.
type Thresholds struct {
	Genres   int
	Studio   int
	Keywords int
	Overview int
}

// Vocabularies bundles the four vocabularies in their feature-vector
// component order: genres, overview, studios, keywords.
type Vocabularies struct {
	Genres   *Vocabulary
	Overview *Vocabulary
	Studios  *Vocabulary
	Keywords *Vocabulary
}

// BuildVocabularies builds all four vocabularies over the corpus.
func BuildVocabularies(movies []dataset.Movie, thresholds Thresholds) *Vocabularies {
	return &Vocabularies{
		Genres:   BuildVocabulary(movies, func(m dataset.Movie) []dataset.Tag { return m.Genres }, thresholds.Genres),
		Overview: BuildVocabulary(movies, dataset.Movie.OverviewTags, thresholds.Overview),
		Studios:  BuildVocabulary(movies, func(m dataset.Movie) []dataset.Tag { return m.Studios }, thresholds.Studio),
		Keywords: BuildVocabulary(movies, func(m dataset.Movie) []dataset.Tag { return m.Keywords }, thresholds.Keywords),
	}
}
