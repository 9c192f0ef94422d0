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

// Package dataset holds the immutable records consumed by the recommendation
// engine: movies with their metadata and the rating log with its two indexes.
package dataset

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Tag is one term of a multi-valued movie attribute (genre, studio, keyword).
type Tag struct {
	Id   string
	Name string
}

// Movie is an item record. Scalar attributes may be absent in the source
// catalog, hence the optional types. Absence is not zero: a free movie has
// budget Some(0), a movie with unknown budget has None.
type Movie struct {
	Id          string
	Title       string
	Budget      mo.Option[float32]
	Popularity  mo.Option[float32]
	Revenue     mo.Option[float32]
	Runtime     mo.Option[float32]
	VoteAverage mo.Option[float32]
	VoteCount   mo.Option[float32]
	ReleaseYear mo.Option[float32]
	Adult       bool
	HasHomepage bool
	Language    string
	Genres      []Tag
	Studios     []Tag
	Keywords    []Tag
	// OverviewTokens are stemmed words from the overview text. Order is
	// irrelevant for vectorization.
	OverviewTokens []string
}

// OverviewTags lifts the overview tokens into the same shape as the other
// tag attributes so one vocabulary builder serves all four.
func (m Movie) OverviewTags() []Tag {
	return lo.Map(m.OverviewTokens, func(token string, _ int) Tag {
		return Tag{Id: token, Name: token}
	})
}

// Rating is one entry of the rating log. Values are on a 1.0-5.0 scale, so
// zero never collides with the "no rating" sentinel in rating matrices.
type Rating struct {
	UserId    string
	MovieId   string
	Value     float32
	Timestamp int64
}

// RatingLog indexes one underlying rating log two ways: by user and by
// movie. Both indexes are built in lockstep from the same entries and stay
// consistent for the lifetime of the log.
type RatingLog struct {
	byUser  map[string]map[string]float32
	byMovie map[string]map[string]float32
	users   []string // first-seen order
	movies  []string // first-seen order
}

// NewRatingLog builds both indexes from a parsed rating log. A later entry
// for the same (user, movie) pair overwrites the earlier one in both
// indexes.
func NewRatingLog(ratings []Rating) *RatingLog {
	l := &RatingLog{
		byUser:  make(map[string]map[string]float32),
		byMovie: make(map[string]map[string]float32),
	}
	for _, r := range ratings {
		if _, exist := l.byUser[r.UserId]; !exist {
			l.byUser[r.UserId] = make(map[string]float32)
			l.users = append(l.users, r.UserId)
		}
		if _, exist := l.byMovie[r.MovieId]; !exist {
			l.byMovie[r.MovieId] = make(map[string]float32)
			l.movies = append(l.movies, r.MovieId)
		}
		l.byUser[r.UserId][r.MovieId] = r.Value
		l.byMovie[r.MovieId][r.UserId] = r.Value
	}
	return l
}

// Users returns user ids in first-seen order.
func (l *RatingLog) Users() []string {
	return l.users
}

// Movies returns movie ids in first-seen order.
func (l *RatingLog) Movies() []string {
	return l.movies
}

// CountUsers returns the number of distinct users.
func (l *RatingLog) CountUsers() int {
	return len(l.users)
}

// CountMovies returns the number of distinct rated movies.
func (l *RatingLog) CountMovies() int {
	return len(l.movies)
}

// User returns the ratings of a user keyed by movie id.
func (l *RatingLog) User(userId string) (map[string]float32, bool) {
	ratings, exist := l.byUser[userId]
	return ratings, exist
}

// Movie returns the ratings of a movie keyed by user id.
func (l *RatingLog) Movie(movieId string) (map[string]float32, bool) {
	ratings, exist := l.byMovie[movieId]
	return ratings, exist
}

// Get returns the rating of a (user, movie) pair. The second return value
// distinguishes "no rating" from any real rating value.
func (l *RatingLog) Get(userId, movieId string) (float32, bool) {
	if ratings, exist := l.byUser[userId]; exist {
		value, rated := ratings[movieId]
		return value, rated
	}
	return 0, false
}

// CountByUser returns the number of movies a user has rated.
func (l *RatingLog) CountByUser(userId string) int {
	return len(l.byUser[userId])
}

// CountByMovie returns the number of ratings a movie has received.
func (l *RatingLog) CountByMovie(movieId string) int {
	return len(l.byMovie[movieId])
}
