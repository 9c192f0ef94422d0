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
	"github.com/juju/errors"

	"github.com/reelrank/reelrank/base/parallel"
	"github.com/reelrank/reelrank/common/floats"
	"github.com/reelrank/reelrank/dataset"
)

// MovieRef locates a movie in the corpus. Index 0 is a valid position;
// presence is signalled by the error of the lookup, not by the index.
type MovieRef struct {
	Index int
	Id    string
	Title string
}

// ContentBased ranks movies by cosine similarity of their normalized
// feature vectors to a query movie.
type ContentBased struct {
	x      [][]float32
	movies []dataset.Movie
	jobs   int
}

// NewContentBased creates a content-based recommender over a normalized
// feature matrix. Rows of x correspond to movies by position.
func NewContentBased(x [][]float32, movies []dataset.Movie, jobs int) (*ContentBased, error) {
	if len(x) != len(movies) {
		return nil, errors.Errorf("feature matrix has %d rows for %d movies", len(x), len(movies))
	}
	if jobs <= 0 {
		jobs = 1
	}
	return &ContentBased{x: x, movies: movies, jobs: jobs}, nil
}

// FindByTitle returns the position of the first movie with an exactly
// matching title.
func (c *ContentBased) FindByTitle(title string) (MovieRef, error) {
	for i, movie := range c.movies {
		if movie.Title == title {
			return MovieRef{Index: i, Id: movie.Id, Title: movie.Title}, nil
		}
	}
	return MovieRef{}, errors.NotFoundf("movie %q", title)
}

// Recommend ranks all movies by similarity to the movie with the given
// title.
func (c *ContentBased) Recommend(title string) ([]Score, error) {
	ref, err := c.FindByTitle(title)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return c.RecommendIndex(ref.Index)
}

// RecommendIndex ranks all movies by cosine similarity to the movie at the
// given corpus position, excluding the query movie itself. Ties keep their
// corpus order.
func (c *ContentBased) RecommendIndex(index int) ([]Score, error) {
	if index < 0 || index >= len(c.movies) {
		return nil, errors.NotFoundf("movie index %d", index)
	}
	query := c.x[index]
	similarities := make([]float32, len(c.x))
	err := parallel.Parallel(len(c.x), c.jobs, func(_, rowId int) error {
		similarities[rowId] = floats.Cosine(query, c.x[rowId])
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	scores := make([]Score, 0, len(c.movies)-1)
	for i, movie := range c.movies {
		if i == index {
			continue
		}
		scores = append(scores, Score{Id: movie.Id, Score: similarities[i]})
	}
	sortScores(scores)
	return scores, nil
}
