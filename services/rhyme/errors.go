// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rhyme provides word-to-rhyme-set lookups against external rhyme
// APIs, with a process-lifetime read-through cache.
//
// The package has two layers:
//   - Client queries one or more rhyme sources per word and unions the
//     results. Near-rhyme sources are filtered by a minimum relevance
//     score; exact-rhyme sources are not.
//   - Cache memoizes Client results per normalized word. Entries are
//     written once on a successful fetch and never evicted. Failed
//     fetches are never cached, so a later call retries the source.
//
// # Thread Safety
//
// Client and Cache are both safe for concurrent use. Cache guarantees at
// most one in-flight fetch per distinct word via singleflight.
package rhyme

import "errors"

// ErrUnavailable is returned when any configured rhyme source returns a
// non-success status or cannot be reached before its timeout. A call that
// obtained partial results from earlier sources still fails as a whole,
// so partial unions never reach the cache.
var ErrUnavailable = errors.New("rhyme source unavailable")
