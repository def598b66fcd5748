// Copyright (C) 2025 Verseforge AI (oss@verseforge.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sampler produces random short sentences from a word-chain
// language model trained on an embedded poetry corpus.
//
// The Supplier wraps the model behind a bounded worker pool so that
// CPU-bound sampling never blocks the goroutines doing concurrent I/O
// for other requests.
package sampler

import "errors"

// ErrExhausted is returned when the sentence model cannot produce a
// sentence within the configured character bounds. This is distinct from
// a normal sentence and is fatal to the current generation attempt.
var ErrExhausted = errors.New("sentence source exhausted")
