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
	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/mo"

	"github.com/reelrank/reelrank/base/parallel"
	"github.com/reelrank/reelrank/dataset"
)

// NumScalars is the number of scalar features at the head of every vector:
// budget, popularity, revenue, runtime, voteAverage, voteCount, releaseYear.
// Only these columns carry missing markers and are imputed.
const NumScalars = 7

// NumFlags is the number of binary features following the scalars:
// adult, homepage, language.
const NumFlags = 3

// Missing marks an absent scalar feature until imputation. Zero is a
// legitimate feature value and must never stand in for absence.
func Missing() float32 {
	return math32.NaN()
}

// IsMissing reports whether a feature value is the missing marker.
func IsMissing(v float32) bool {
	return math32.IsNaN(v)
}

// Vectorizer maps movie records to fixed-length feature vectors. The
// vocabularies must not change once the first vector has been produced.
type Vectorizer struct {
	vocabularies      *Vocabularies
	referenceLanguage string
}

func NewVectorizer(vocabularies *Vocabularies, referenceLanguage string) *Vectorizer {
	return &Vectorizer{
		vocabularies:      vocabularies,
		referenceLanguage: referenceLanguage,
	}
}

// Dimension returns the length of every produced vector.
func (v *Vectorizer) Dimension() int {
	return NumScalars + NumFlags +
		v.vocabularies.Genres.Len() +
		v.vocabularies.Overview.Len() +
		v.vocabularies.Studios.Len() +
		v.vocabularies.Keywords.Len()
}

// Vectorize encodes one movie. Absent scalars are emitted as the missing
// marker. The vector length is Dimension() regardless of which attributes
// are absent.
func (v *Vectorizer) Vectorize(m dataset.Movie) []float32 {
	vector := make([]float32, 0, v.Dimension())
	vector = append(vector,
		scalarFeature(m.Budget),
		scalarFeature(m.Popularity),
		scalarFeature(m.Revenue),
		scalarFeature(m.Runtime),
		scalarFeature(m.VoteAverage),
		scalarFeature(m.VoteCount),
		scalarFeature(m.ReleaseYear))
	vector = append(vector,
		flagFeature(m.Adult),
		// Inverted on purpose: the absence of a homepage is the positive
		// signal.
		flagFeature(!m.HasHomepage),
		flagFeature(m.Language == v.referenceLanguage))
	vector = appendMembership(vector, v.vocabularies.Genres, m.Genres)
	vector = appendMembership(vector, v.vocabularies.Overview, m.OverviewTags())
	vector = appendMembership(vector, v.vocabularies.Studios, m.Studios)
	vector = appendMembership(vector, v.vocabularies.Keywords, m.Keywords)
	return vector
}

// Matrix vectorizes the whole corpus. Rows are independent and computed in
// parallel; the result is identical for any number of jobs.
func (v *Vectorizer) Matrix(movies []dataset.Movie, jobs int) ([][]float32, error) {
	x := make([][]float32, len(movies))
	err := parallel.Parallel(len(movies), jobs, func(_, rowId int) error {
		x[rowId] = v.Vectorize(movies[rowId])
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return x, nil
}

func scalarFeature(value mo.Option[float32]) float32 {
	if v, present := value.Get(); present {
		return v
	}
	return Missing()
}

func flagFeature(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

func appendMembership(vector []float32, vocabulary *Vocabulary, tags []dataset.Tag) []float32 {
	ids := mapset.NewThreadUnsafeSet[string]()
	for _, tag := range tags {
		ids.Add(tag.Id)
	}
	for _, term := range vocabulary.Terms() {
		vector = append(vector, flagFeature(ids.Contains(term.Id)))
	}
	return vector
}
