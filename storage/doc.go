// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storage holds uploaded file bytes in an on-disk bitcask
// datastore, keyed by the stored file name. Upload validation, unique name
// generation, and the text extraction hook live here too.
package storage
