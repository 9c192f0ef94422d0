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
	"sort"
	"sync"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
	"github.com/reelrank/reelrank/base/parallel"
	"github.com/reelrank/reelrank/common/floats"
	"github.com/reelrank/reelrank/dataset"
)

// Orientation selects which axis of the rating matrix is compared for
// similarity.
type Orientation int

const (
	// UserBased compares users: rows are users, columns are movies.
	UserBased Orientation = iota
	// ItemBased compares movies: rows are movies, columns are users.
	ItemBased
)

func (o Orientation) String() string {
	switch o {
	case UserBased:
		return "user-based"
	case ItemBased:
		return "item-based"
	default:
		return "unknown"
	}
}

// CollaborativeFilteringConfig are the tunable parameters of the
// collaborative-filtering recommender. The popularity thresholds bound the
// rating matrix over large catalogs; they are never applied to the target
// user or to movies the target has rated.
type CollaborativeFilteringConfig struct {
	// Neighborhood is the number of most-similar neighbors kept per
	// prediction.
	Neighborhood int
	// MinRatingsPerMovie discards movies with fewer ratings.
	MinRatingsPerMovie int
	// MinRatingsPerUser discards users who rated fewer movies.
	MinRatingsPerUser int
	Jobs              int
}

// CollaborativeFiltering predicts ratings from the rating log alone via a
// k-nearest-neighbor estimator over mean-centered rating rows.
type CollaborativeFiltering struct {
	ratings *dataset.RatingLog
	config  CollaborativeFilteringConfig

	mu    sync.Mutex
	cache map[matrixKey]*ratingMatrix
}

type matrixKey struct {
	orientation Orientation
	// target participates in the key only when popularity thresholds are
	// active, because the target-protection rule then makes the filtered
	// matrix target-dependent.
	target string
}

// ratingMatrix is a dense row-major rating matrix. A zero cell means "no
// rating"; the rating scale is 1.0-5.0 so the sentinel never collides with
// a real rating.
type ratingMatrix struct {
	raw      [][]float32
	centered [][]float32
	rowIds   []string
	colIds   []string
	rowIndex map[string]int
	colIndex map[string]int
}

func NewCollaborativeFiltering(ratings *dataset.RatingLog, config CollaborativeFilteringConfig) *CollaborativeFiltering {
	if config.Neighborhood <= 0 {
		config.Neighborhood = 7
	}
	if config.Jobs <= 0 {
		config.Jobs = 1
	}
	return &CollaborativeFiltering{
		ratings: ratings,
		config:  config,
		cache:   make(map[matrixKey]*ratingMatrix),
	}
}

// Recommend scores every movie in the rating matrix for the target user.
// Movies the user already rated pass through with their original rating;
// the rest receive neighborhood predictions. Unscorable movies (empty
// neighborhood) stay in the output with score 0.
func (cf *CollaborativeFiltering) Recommend(orientation Orientation, userId string) ([]Score, error) {
	targetRatings, exist := cf.ratings.User(userId)
	if !exist {
		return nil, errors.NotFoundf("user %q", userId)
	}
	matrix := cf.matrix(orientation, userId, targetRatings)
	switch orientation {
	case UserBased:
		return cf.recommendUserBased(matrix, userId)
	case ItemBased:
		return cf.recommendItemBased(matrix, userId)
	default:
		return nil, errors.NotSupportedf("orientation %v", orientation)
	}
}

func (cf *CollaborativeFiltering) recommendUserBased(matrix *ratingMatrix, userId string) ([]Score, error) {
	target := matrix.rowIndex[userId]
	// Similarity of the target row to every row. A target whose centered
	// row has zero norm (e.g. a single rating) is degenerate; fall back to
	// raw rows so the target is still comparable.
	basis := matrix.centered
	if isZeroVector(matrix.centered[target]) {
		log.Logger().Debug("centered target row has zero norm, comparing raw rows",
			zap.String("user_id", userId))
		basis = matrix.raw
	}
	similarities := make([]float32, len(basis))
	err := parallel.Parallel(len(basis), cf.config.Jobs, func(_, rowId int) error {
		similarities[rowId] = floats.Cosine(basis[target], basis[rowId])
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	// Predict column by column. Already-rated columns keep the original
	// rating untouched.
	scores := make([]Score, len(matrix.colIds))
	unscorable := atomic.NewInt32(0)
	err = parallel.Parallel(len(matrix.colIds), cf.config.Jobs, func(_, col int) error {
		if rating := matrix.raw[target][col]; rating != 0 {
			scores[col] = Score{Id: matrix.colIds[col], Score: rating}
			return nil
		}
		neighbors := make([]neighbor, 0)
		for row := range matrix.raw {
			if row != target && matrix.raw[row][col] != 0 {
				neighbors = append(neighbors, neighbor{
					similarity: similarities[row],
					rating:     matrix.raw[row][col],
				})
			}
		}
		prediction, ok := cf.estimate(neighbors)
		if !ok {
			unscorable.Inc()
		}
		scores[col] = Score{Id: matrix.colIds[col], Score: prediction}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if n := unscorable.Load(); n > 0 {
		log.Logger().Debug("unscorable movies", zap.Int32("count", n), zap.String("user_id", userId))
	}
	sortScores(scores)
	return scores, nil
}

func (cf *CollaborativeFiltering) recommendItemBased(matrix *ratingMatrix, userId string) ([]Score, error) {
	column, exist := matrix.colIndex[userId]
	if !exist {
		return nil, errors.NotFoundf("user %q in rating matrix", userId)
	}
	scores := make([]Score, len(matrix.rowIds))
	unscorable := atomic.NewInt32(0)
	// Each unrated movie needs its own similarity row against all movies,
	// which dominates the cost; parallelize over movies.
	err := parallel.Parallel(len(matrix.rowIds), cf.config.Jobs, func(_, row int) error {
		if rating := matrix.raw[row][column]; rating != 0 {
			scores[row] = Score{Id: matrix.rowIds[row], Score: rating}
			return nil
		}
		basis := matrix.centered
		if isZeroVector(matrix.centered[row]) {
			basis = matrix.raw
		}
		neighbors := make([]neighbor, 0)
		for other := range basis {
			if other != row && matrix.raw[other][column] != 0 {
				neighbors = append(neighbors, neighbor{
					similarity: floats.Cosine(basis[row], basis[other]),
					rating:     matrix.raw[other][column],
				})
			}
		}
		prediction, ok := cf.estimate(neighbors)
		if !ok {
			unscorable.Inc()
		}
		scores[row] = Score{Id: matrix.rowIds[row], Score: prediction}
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if n := unscorable.Load(); n > 0 {
		log.Logger().Debug("unscorable movies", zap.Int32("count", n), zap.String("user_id", userId))
	}
	sortScores(scores)
	return scores, nil
}

type neighbor struct {
	similarity float32
	rating     float32
}

// estimate computes the neighborhood prediction
//
//	sum(sim_i * rating_i) / sqrt(sum(sim_i^2))
//
// over the top-N most similar neighbors that rated the movie. The
// normalization is deliberately sqrt of the squared similarity sum, not the
// usual sum of absolute similarities. A zero denominator means the movie is
// unscorable and yields 0.
func (cf *CollaborativeFiltering) estimate(neighbors []neighbor) (float32, bool) {
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].similarity > neighbors[j].similarity
	})
	if len(neighbors) > cf.config.Neighborhood {
		neighbors = neighbors[:cf.config.Neighborhood]
	}
	var numerator, denominator float32
	for _, n := range neighbors {
		numerator += n.similarity * n.rating
		denominator += n.similarity * n.similarity
	}
	if denominator == 0 {
		return 0, false
	}
	return numerator / math32.Sqrt(denominator), true
}

// matrix returns the cached rating matrix for an orientation, building it
// on first use. With popularity thresholds active the matrix is cached per
// target, since the target-protection rule changes which rows and columns
// survive filtering.
func (cf *CollaborativeFiltering) matrix(orientation Orientation, userId string, targetRatings map[string]float32) *ratingMatrix {
	key := matrixKey{orientation: orientation}
	if cf.config.MinRatingsPerMovie > 0 || cf.config.MinRatingsPerUser > 0 {
		key.target = userId
	}
	cf.mu.Lock()
	defer cf.mu.Unlock()
	if cached, exist := cf.cache[key]; exist {
		return cached
	}
	users := cf.filterUsers(userId)
	movies := cf.filterMovies(targetRatings)
	var matrix *ratingMatrix
	switch orientation {
	case UserBased:
		matrix = cf.build(users, movies, func(rowId, colId string) (float32, bool) {
			return cf.ratings.Get(rowId, colId)
		})
	case ItemBased:
		matrix = cf.build(movies, users, func(rowId, colId string) (float32, bool) {
			return cf.ratings.Get(colId, rowId)
		})
	}
	cf.cache[key] = matrix
	return matrix
}

func (cf *CollaborativeFiltering) filterUsers(target string) []string {
	users := make([]string, 0, cf.ratings.CountUsers())
	for _, userId := range cf.ratings.Users() {
		if userId == target || cf.ratings.CountByUser(userId) >= cf.config.MinRatingsPerUser {
			users = append(users, userId)
		}
	}
	return users
}

func (cf *CollaborativeFiltering) filterMovies(targetRatings map[string]float32) []string {
	movies := make([]string, 0, cf.ratings.CountMovies())
	for _, movieId := range cf.ratings.Movies() {
		if _, rated := targetRatings[movieId]; rated ||
			cf.ratings.CountByMovie(movieId) >= cf.config.MinRatingsPerMovie {
			movies = append(movies, movieId)
		}
	}
	return movies
}

func (cf *CollaborativeFiltering) build(rowIds, colIds []string, rating func(rowId, colId string) (float32, bool)) *ratingMatrix {
	matrix := &ratingMatrix{
		raw:      make([][]float32, len(rowIds)),
		centered: make([][]float32, len(rowIds)),
		rowIds:   rowIds,
		colIds:   colIds,
		rowIndex: make(map[string]int, len(rowIds)),
		colIndex: make(map[string]int, len(colIds)),
	}
	for i, rowId := range rowIds {
		matrix.rowIndex[rowId] = i
	}
	for j, colId := range colIds {
		matrix.colIndex[colId] = j
	}
	for i, rowId := range rowIds {
		matrix.raw[i] = make([]float32, len(colIds))
		for j, colId := range colIds {
			if value, rated := rating(rowId, colId); rated {
				matrix.raw[i][j] = value
			}
		}
	}
	// Mean-center each row around its own non-zero mean so rating tendency
	// does not dominate similarity. Zero cells stay zero.
	for i := range matrix.raw {
		matrix.centered[i] = centerRow(matrix.raw[i])
	}
	return matrix
}

// centerRow subtracts the mean of the non-zero entries from every non-zero
// entry. A row with no ratings has mean 0 and stays untouched.
func centerRow(row []float32) []float32 {
	var sum float32
	var count int
	for _, value := range row {
		if value != 0 {
			sum += value
			count++
		}
	}
	centered := make([]float32, len(row))
	if count == 0 {
		return centered
	}
	mean := sum / float32(count)
	for j, value := range row {
		if value != 0 {
			centered[j] = value - mean
		}
	}
	return centered
}

func isZeroVector(a []float32) bool {
	for _, value := range a {
		if value != 0 {
			return false
		}
	}
	return true
}
