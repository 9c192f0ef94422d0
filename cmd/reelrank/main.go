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

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
	"github.com/reelrank/reelrank/base/parallel"
	"github.com/reelrank/reelrank/config"
	"github.com/reelrank/reelrank/dataset"
	"github.com/reelrank/reelrank/feature"
	"github.com/reelrank/reelrank/logics"
	"github.com/reelrank/reelrank/storage/data"
)

var rootCommand = &cobra.Command{
	Use:   "reelrank",
	Short: "Movie recommendation engine over the TMDB metadata and rating exports.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		var conf *config.Config
		var err error
		if configPath, _ := cmd.PersistentFlags().GetString("config"); configPath != "" {
			log.Logger().Info("load config", zap.String("config", configPath))
			conf, err = config.LoadConfig(configPath)
			if err != nil {
				log.Logger().Fatal("failed to load config", zap.Error(err))
			}
		} else {
			conf = config.GetDefaultConfig()
		}
		if topN, _ := cmd.PersistentFlags().GetInt("top-n"); topN > 0 {
			conf.Recommend.TopN = topN
		}
		if jobs, _ := cmd.PersistentFlags().GetInt("jobs"); jobs > 0 {
			conf.Recommend.Jobs = jobs
		}

		strategy, _ := cmd.PersistentFlags().GetString("strategy")
		title, _ := cmd.PersistentFlags().GetString("title")
		userId, _ := cmd.PersistentFlags().GetString("user")

		var scores []logics.Score
		var movies []dataset.Movie
		switch strategy {
		case "content":
			movies = loadMovies(conf)
			engine, buildErr := logics.NewContentBased(vectorize(conf, movies), movies, conf.Recommend.Jobs)
			if buildErr != nil {
				log.Logger().Fatal("failed to build recommender", zap.Error(buildErr))
			}
			scores, err = engine.Recommend(title)
		case "user", "item":
			movies = loadMovies(conf)
			engine := logics.NewCollaborativeFiltering(loadRatings(conf), logics.CollaborativeFilteringConfig{
				Neighborhood:       conf.Collaborative.Neighborhood,
				MinRatingsPerMovie: conf.Collaborative.MinRatingsPerMovie,
				MinRatingsPerUser:  conf.Collaborative.MinRatingsPerUser,
				Jobs:               conf.Recommend.Jobs,
			})
			orientation := logics.UserBased
			if strategy == "item" {
				orientation = logics.ItemBased
			}
			scores, err = engine.Recommend(orientation, userId)
		case "regression":
			movies = loadMovies(conf)
			engine := logics.NewRegression(logics.RegressionConfig{
				LearningRate: conf.Regression.LearningRate,
				Iterations:   conf.Regression.Iterations,
			})
			scores, err = engine.Recommend(vectorize(conf, movies), movies, loadRatings(conf), userId)
		default:
			log.Logger().Fatal("unknown strategy, expect one of content|user|item|regression",
				zap.String("strategy", strategy))
		}
		if err != nil {
			log.Logger().Fatal("recommendation failed", zap.Error(err))
		}
		if len(scores) > conf.Recommend.TopN {
			scores = scores[:conf.Recommend.TopN]
		}
		printScores(scores, movies)
	},
}

func loadMovies(conf *config.Config) []dataset.Movie {
	movies, err := data.LoadMovies(conf.Data.MoviesPath, conf.Data.KeywordsPath)
	if err != nil {
		log.Logger().Fatal("failed to load movie catalog", zap.Error(err))
	}
	return movies
}

func loadRatings(conf *config.Config) *dataset.RatingLog {
	ratings, err := data.LoadRatings(conf.Data.RatingsPath)
	if err != nil {
		log.Logger().Fatal("failed to load rating log", zap.Error(err))
	}
	return ratings
}

// vectorize builds the vocabularies from the catalog and turns every movie
// into a normalized feature vector.
func vectorize(conf *config.Config, movies []dataset.Movie) [][]float32 {
	vocabularies := feature.BuildVocabularies(movies, feature.Thresholds{
		Genres:   conf.Vocabulary.GenresThreshold,
		Studio:   conf.Vocabulary.StudioThreshold,
		Keywords: conf.Vocabulary.KeywordsThreshold,
		Overview: conf.Vocabulary.OverviewThreshold,
	})
	vectorizer := feature.NewVectorizer(vocabularies, conf.Data.ReferenceLanguage)
	log.Logger().Info("vectorize movies",
		zap.Int("movies", len(movies)),
		zap.Int("dimension", vectorizer.Dimension()))
	bar := progressbar.Default(int64(len(movies)), "Vectorizing movies")
	x := make([][]float32, len(movies))
	_ = parallel.Parallel(len(movies), conf.Recommend.Jobs, func(_, i int) error {
		x[i] = vectorizer.Vectorize(movies[i])
		return bar.Add(1)
	})
	_ = bar.Finish()
	normalized, _ := feature.Normalize(x)
	return normalized
}

func printScores(scores []logics.Score, movies []dataset.Movie) {
	titles := make(map[string]string, len(movies))
	for _, movie := range movies {
		titles[movie.Id] = movie.Title
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Rank", "Movie ID", "Title", "Score"})
	for i, score := range scores {
		table.Append([]string{
			strconv.Itoa(i + 1),
			score.Id,
			titles[score.Id],
			fmt.Sprintf("%.4f", score.Score),
		})
	}
	table.Render()
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().StringP("strategy", "s", "content", "recommendation strategy (content|user|item|regression)")
	rootCommand.PersistentFlags().StringP("title", "t", "", "query movie title for the content strategy")
	rootCommand.PersistentFlags().StringP("user", "u", "", "query user id for the user|item|regression strategies")
	rootCommand.PersistentFlags().IntP("top-n", "n", 0, "number of recommendations to print")
	rootCommand.PersistentFlags().Int("jobs", 0, "number of working jobs")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(errors.Trace(err)))
	}
}
