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
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
	"github.com/reelrank/reelrank/common/floats"
	"github.com/reelrank/reelrank/dataset"
)

// RegressionConfig are the gradient-descent hyper-parameters.
type RegressionConfig struct {
	LearningRate float32
	Iterations   int
}

// Regression trains a per-user linear model on the normalized feature
// vectors of the movies the user rated, then scores the remaining movies.
type Regression struct {
	config RegressionConfig
}

func NewRegression(config RegressionConfig) *Regression {
	if config.LearningRate <= 0 {
		config.LearningRate = 0.03
	}
	if config.Iterations <= 0 {
		config.Iterations = 750
	}
	return &Regression{config: config}
}

// Recommend trains on the target user's rated movies and ranks the movies
// the user has not rated. Rows of x correspond to movies by position.
func (r *Regression) Recommend(x [][]float32, movies []dataset.Movie, ratings *dataset.RatingLog, userId string) ([]Score, error) {
	if len(x) != len(movies) {
		return nil, errors.Errorf("feature matrix has %d rows for %d movies", len(x), len(movies))
	}
	userRatings, exist := ratings.User(userId)
	if !exist {
		return nil, errors.NotFoundf("user %q", userId)
	}
	// Partition the corpus, prepending the intercept term to every row.
	var trainingRows [][]float32
	var trainingLabels []float32
	var testRows [][]float32
	var testIds []string
	for i, movie := range movies {
		row := withIntercept(x[i])
		if rating, rated := userRatings[movie.Id]; rated {
			trainingRows = append(trainingRows, row)
			trainingLabels = append(trainingLabels, rating)
		} else {
			testRows = append(testRows, row)
			testIds = append(testIds, movie.Id)
		}
	}
	if len(trainingRows) == 0 {
		return nil, errors.NotFoundf("ratings of user %q in the catalog", userId)
	}
	if len(trainingRows) < len(trainingRows[0]) {
		log.Logger().Warn("regression model is underdetermined",
			zap.String("user_id", userId),
			zap.Int("rated_movies", len(trainingRows)),
			zap.Int("parameters", len(trainingRows[0])))
	}
	theta, costs := r.fit(trainingRows, trainingLabels)
	log.Logger().Info("trained regression model",
		zap.String("user_id", userId),
		zap.Int("iterations", r.config.Iterations),
		zap.Float32("final_cost", costs[len(costs)-1]))
	// Score the prediction set.
	scores := make([]Score, len(testRows))
	for i, row := range testRows {
		scores[i] = Score{Id: testIds[i], Score: floats.Dot(row, theta)}
	}
	sortScores(scores)
	return scores, nil
}

// fit runs batch gradient descent from a zero parameter vector:
//
//	theta := theta - (learningRate/m) * X^T (X*theta - y)
//
// and returns the trained parameters along with the cost
// J = 1/(2m) * sum((X*theta - y)^2) per iteration.
func (r *Regression) fit(rows [][]float32, labels []float32) ([]float32, []float32) {
	m := float32(len(rows))
	theta := make([]float32, len(rows[0]))
	gradient := make([]float32, len(theta))
	costs := make([]float32, r.config.Iterations)
	for iteration := 0; iteration < r.config.Iterations; iteration++ {
		floats.Zero(gradient)
		var squaredError float32
		for i, row := range rows {
			residual := floats.Dot(row, theta) - labels[i]
			floats.MulConstAdd(row, residual, gradient)
			squaredError += residual * residual
		}
		floats.MulConstAdd(gradient, -r.config.LearningRate/m, theta)
		costs[iteration] = squaredError / (2 * m)
		if iteration%50 == 0 {
			log.Logger().Debug("gradient descent",
				zap.Int("iteration", iteration),
				zap.Float32("cost", costs[iteration]))
		}
	}
	return theta, costs
}

func withIntercept(row []float32) []float32 {
	out := make([]float32, 0, len(row)+1)
	out = append(out, 1)
	return append(out, row...)
}
