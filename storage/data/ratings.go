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

package data

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/reelrank/reelrank/base/log"
	"github.com/reelrank/reelrank/dataset"
)

// LoadRatings reads the rating export into a rating log. Rows with an
// unparsable rating value are dropped and counted.
func LoadRatings(path string) (*dataset.RatingLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	h, err := readHeader(reader, "userId", "movieId", "rating")
	if err != nil {
		return nil, errors.Trace(err)
	}
	var ratings []dataset.Rating
	var malformed int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			malformed++
			continue
		}
		userId := h.get(record, "userId")
		movieId := h.get(record, "movieId")
		value, parseErr := strconv.ParseFloat(h.get(record, "rating"), 32)
		if userId == "" || movieId == "" || parseErr != nil {
			malformed++
			continue
		}
		timestamp, _ := strconv.ParseInt(h.get(record, "timestamp"), 10, 64)
		ratings = append(ratings, dataset.Rating{
			UserId:    userId,
			MovieId:   movieId,
			Value:     float32(value),
			Timestamp: timestamp,
		})
	}
	log.Logger().Info("loaded rating log",
		zap.String("path", path),
		zap.Int("ratings", len(ratings)),
		zap.Int("malformed_rows", malformed))
	return dataset.NewRatingLog(ratings), nil
}
