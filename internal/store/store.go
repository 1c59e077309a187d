// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package store provides caches for compiled Swift output.
package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// Entry is one cached compilation.
type Entry struct {
	Key    string // Key(Source)
	Source string
	Output string
}

// Store is the interface for compilation caches.
type Store interface {
	// Get retrieves an entry by key. The bool is false if not found.
	Get(key string) (Entry, bool, error)
	// Put stores an entry, overwriting any entry with the same key.
	Put(e Entry) error
	// Delete removes an entry by key.
	Delete(key string) error
	// Purge removes every entry. Metadata is kept.
	Purge() error
	// Len returns the number of entries.
	Len() (int, error)
	// Close releases resources.
	Close() error
}

// MetadataStore extends Store with metadata operations.
type MetadataStore interface {
	Store
	GetMetadata(key string) (string, error)
	SetMetadata(key, value string) error
}

// Key derives the cache key for a source text.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
