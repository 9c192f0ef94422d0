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
	"encoding/json"
	"strings"

	"github.com/samber/lo"

	"github.com/reelrank/reelrank/dataset"
)

type tagRecord struct {
	Id   json.Number `json:"id"`
	Name string      `json:"name"`
}

// decodeTagList decodes an attribute list serialized as a Python literal,
// e.g. [{'id': 16, 'name': 'Animation'}]. The literal is normalized to JSON
// and parsed strictly. Anything that does not survive the round trip, such
// as names containing apostrophes, degrades to an empty list with ok false.
// The decoder never evaluates the input.
func decodeTagList(s string) ([]dataset.Tag, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil, true
	}
	normalized := strings.NewReplacer("'", `"`, "None", "null").Replace(s)
	var records []tagRecord
	if err := json.Unmarshal([]byte(normalized), &records); err != nil {
		return nil, false
	}
	return lo.Map(records, func(record tagRecord, _ int) dataset.Tag {
		return dataset.Tag{Id: record.Id.String(), Name: record.Name}
	}), true
}
