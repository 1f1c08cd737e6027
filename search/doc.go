// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package search ranks stored documents by relevance to a query.
//
// The Searcher embeds the query and scores every document whose embedding
// has the same dimensionality using cosine similarity. When the query
// cannot be embedded, or no stored document carries a usable embedding,
// it falls back to lexical matching: query tokens longer than two
// characters are matched as case-insensitive substrings of each
// document's title and content, and matches are returned in storage order.
//
// The strategy is chosen per call, so an embedding outage degrades
// search quality without failing requests.
package search
