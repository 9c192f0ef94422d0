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

// Package data loads the CSV exports of the movie catalog and the rating log.
package data

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/samber/mo"
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
	"github.com/reelrank/reelrank/dataset"
)

// header maps column names to their position in a CSV export.
type header map[string]int

func readHeader(reader *csv.Reader, columns ...string) (header, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	h := make(header, len(record))
	for i, name := range record {
		h[name] = i
	}
	for _, name := range columns {
		if _, exist := h[name]; !exist {
			return nil, errors.NotFoundf("column %q", name)
		}
	}
	return h, nil
}

func (h header) get(record []string, column string) string {
	index, exist := h[column]
	if !exist || index >= len(record) {
		return ""
	}
	return record[index]
}

// LoadMovies reads the movie metadata export and joins the keyword export by
// movie id. Rows without an id and rows whose field count is broken are
// dropped and counted; undecodable attribute lists degrade to empty lists.
func LoadMovies(moviesPath, keywordsPath string) ([]dataset.Movie, error) {
	keywords, err := loadKeywords(keywordsPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	file, err := os.Open(moviesPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	h, err := readHeader(reader,
		"id", "title", "adult", "budget", "genres", "homepage", "original_language",
		"overview", "popularity", "production_companies", "release_date", "revenue",
		"runtime", "vote_average", "vote_count")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var movies []dataset.Movie
	var malformed, badTagLists int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			malformed++
			continue
		}
		id := h.get(record, "id")
		if id == "" {
			malformed++
			continue
		}
		genres, ok := decodeTagList(h.get(record, "genres"))
		if !ok {
			badTagLists++
		}
		studios, ok := decodeTagList(h.get(record, "production_companies"))
		if !ok {
			badTagLists++
		}
		movies = append(movies, dataset.Movie{
			Id:             id,
			Title:          h.get(record, "title"),
			Budget:         parseOptionalFloat(h.get(record, "budget")),
			Popularity:     parseOptionalFloat(h.get(record, "popularity")),
			Revenue:        parseOptionalFloat(h.get(record, "revenue")),
			Runtime:        parseOptionalFloat(h.get(record, "runtime")),
			VoteAverage:    parseOptionalFloat(h.get(record, "vote_average")),
			VoteCount:      parseOptionalFloat(h.get(record, "vote_count")),
			ReleaseYear:    parseReleaseYear(h.get(record, "release_date")),
			Adult:          h.get(record, "adult") != "False",
			HasHomepage:    h.get(record, "homepage") != "",
			Language:       h.get(record, "original_language"),
			Genres:         genres,
			Studios:        studios,
			Keywords:       keywords[id],
			OverviewTokens: Tokenize(h.get(record, "overview")),
		})
	}
	log.Logger().Info("loaded movie catalog",
		zap.String("path", moviesPath),
		zap.Int("movies", len(movies)),
		zap.Int("malformed_rows", malformed),
		zap.Int("undecodable_tag_lists", badTagLists))
	return movies, nil
}

func loadKeywords(path string) (map[string][]dataset.Tag, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	h, err := readHeader(reader, "id", "keywords")
	if err != nil {
		return nil, errors.Trace(err)
	}
	keywords := make(map[string][]dataset.Tag)
	var badTagLists int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			continue
		}
		id := h.get(record, "id")
		if id == "" {
			continue
		}
		tags, ok := decodeTagList(h.get(record, "keywords"))
		if !ok {
			badTagLists++
		}
		keywords[id] = tags
	}
	log.Logger().Info("loaded keywords",
		zap.String("path", path),
		zap.Int("movies", len(keywords)),
		zap.Int("undecodable_tag_lists", badTagLists))
	return keywords, nil
}

// parseOptionalFloat keeps the distinction between an absent value and a
// genuine zero. Only empty or unparsable fields are absent.
func parseOptionalFloat(s string) mo.Option[float32] {
	if s == "" {
		return mo.None[float32]()
	}
	value, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return mo.None[float32]()
	}
	return mo.Some(float32(value))
}

// parseReleaseYear extracts the year from a "2006-01-02" release date.
func parseReleaseYear(s string) mo.Option[float32] {
	if len(s) < 4 {
		return mo.None[float32]()
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return mo.None[float32]()
	}
	return mo.Some(float32(year))
}
