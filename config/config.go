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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the recommendation engine.
type Config struct {
	Data          DataConfig          `mapstructure:"data"`
	Vocabulary    VocabularyConfig    `mapstructure:"vocabulary"`
	Collaborative CollaborativeConfig `mapstructure:"collaborative"`
	Regression    RegressionConfig    `mapstructure:"regression"`
	Recommend     RecommendConfig     `mapstructure:"recommend"`
}

// DataConfig points at the CSV exports the engine ingests.
type DataConfig struct {
	MoviesPath   string `mapstructure:"movies_path"`
	KeywordsPath string `mapstructure:"keywords_path"`
	RatingsPath  string `mapstructure:"ratings_path"`
	// ReferenceLanguage is the original language treated as the positive
	// value of the language flag feature.
	ReferenceLanguage string `mapstructure:"reference_language" validate:"required"`
}

// VocabularyConfig holds the per-attribute occurrence thresholds. A term
// enters a vocabulary only if its corpus count is strictly greater than the
// threshold.
type VocabularyConfig struct {
	GenresThreshold   int `mapstructure:"genres_threshold" validate:"gte=0"`
	StudioThreshold   int `mapstructure:"studio_threshold" validate:"gte=0"`
	KeywordsThreshold int `mapstructure:"keywords_threshold" validate:"gte=0"`
	OverviewThreshold int `mapstructure:"overview_threshold" validate:"gte=0"`
}

// CollaborativeConfig tunes the k-nearest-neighbor recommender.
type CollaborativeConfig struct {
	Neighborhood       int `mapstructure:"neighborhood" validate:"gt=0"`
	MinRatingsPerMovie int `mapstructure:"min_ratings_per_movie" validate:"gte=0"`
	MinRatingsPerUser  int `mapstructure:"min_ratings_per_user" validate:"gte=0"`
}

// RegressionConfig tunes per-user gradient descent.
type RegressionConfig struct {
	LearningRate float32 `mapstructure:"learning_rate" validate:"gt=0"`
	Iterations   int     `mapstructure:"iterations" validate:"gt=0"`
}

type RecommendConfig struct {
	// TopN is the number of recommendations printed per query.
	TopN int `mapstructure:"top_n" validate:"gt=0"`
	Jobs int `mapstructure:"jobs" validate:"gt=0"`
}

// GetDefaultConfig returns a configuration with the default hyper-parameters.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			MoviesPath:        "movies_metadata.csv",
			KeywordsPath:      "keywords.csv",
			RatingsPath:       "ratings_small.csv",
			ReferenceLanguage: "en",
		},
		Vocabulary: VocabularyConfig{
			GenresThreshold:   1,
			StudioThreshold:   75,
			KeywordsThreshold: 150,
			OverviewThreshold: 750,
		},
		Collaborative: CollaborativeConfig{
			Neighborhood: 7,
		},
		Regression: RegressionConfig{
			LearningRate: 0.03,
			Iterations:   750,
		},
		Recommend: RecommendConfig{
			TopN: 10,
			Jobs: 1,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [data]
	viper.SetDefault("data.movies_path", defaultConfig.Data.MoviesPath)
	viper.SetDefault("data.keywords_path", defaultConfig.Data.KeywordsPath)
	viper.SetDefault("data.ratings_path", defaultConfig.Data.RatingsPath)
	viper.SetDefault("data.reference_language", defaultConfig.Data.ReferenceLanguage)
	// [vocabulary]
	viper.SetDefault("vocabulary.genres_threshold", defaultConfig.Vocabulary.GenresThreshold)
	viper.SetDefault("vocabulary.studio_threshold", defaultConfig.Vocabulary.StudioThreshold)
	viper.SetDefault("vocabulary.keywords_threshold", defaultConfig.Vocabulary.KeywordsThreshold)
	viper.SetDefault("vocabulary.overview_threshold", defaultConfig.Vocabulary.OverviewThreshold)
	// [collaborative]
	viper.SetDefault("collaborative.neighborhood", defaultConfig.Collaborative.Neighborhood)
	viper.SetDefault("collaborative.min_ratings_per_movie", defaultConfig.Collaborative.MinRatingsPerMovie)
	viper.SetDefault("collaborative.min_ratings_per_user", defaultConfig.Collaborative.MinRatingsPerUser)
	// [regression]
	viper.SetDefault("regression.learning_rate", defaultConfig.Regression.LearningRate)
	viper.SetDefault("regression.iterations", defaultConfig.Regression.Iterations)
	// [recommend]
	viper.SetDefault("recommend.top_n", defaultConfig.Recommend.TopN)
	viper.SetDefault("recommend.jobs", defaultConfig.Recommend.Jobs)
}

// Validate checks the configuration against the struct tags.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// LoadConfig loads and validates the configuration from a TOML file.
// Environment variables of the form REELRANK_SECTION_KEY override the file.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("reelrank")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
