// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-gameid.
//
// go-gameid is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gameid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gameid.  If not, see <https://www.gnu.org/licenses/>.

// Package archive provides support for reading build-pipeline inputs out of
// ZIP/PK3, 7z, and RAR containers, so the build orchestrator can treat an
// archive member the same way it treats a loose file on disk.
package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry describes a single member of an archive.
type Entry struct {
	Name string // Full path within archive
	Size int64  // Uncompressed size
}

// Reader provides read access to the members of an archive.
type Reader interface {
	// List returns all members of the archive.
	List() ([]Entry, error)

	// Open opens a member for sequential reading.
	// Returns the reader, uncompressed size, and any error.
	Open(internalPath string) (io.ReadCloser, int64, error)

	// OpenReaderAt opens a member and returns an io.ReaderAt interface.
	// The file contents are buffered in memory to support random access.
	// The returned Closer must be called to release resources.
	OpenReaderAt(internalPath string) (io.ReaderAt, int64, io.Closer, error)

	// Close closes the archive.
	Close() error
}

// Open opens an archive file based on its extension.
// Supported formats: .zip, .pk3, .7z, .rar
func Open(path string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".zip", ".pk3":
		return OpenZIP(path)
	case ".7z":
		return OpenSevenZip(path)
	case ".rar":
		return OpenRAR(path)
	default:
		return nil, FormatError{Format: ext}
	}
}

// IsArchiveExtension checks if an extension is a supported archive format.
func IsArchiveExtension(ext string) bool {
	ext = strings.ToLower(ext)
	switch ext {
	case ".zip", ".pk3", ".7z", ".rar":
		return true
	default:
		return false
	}
}

// nopCloser wraps a value that doesn't need closing.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// byteReaderAt implements io.ReaderAt for a byte slice.
type byteReaderAt struct {
	data []byte
}

func (br *byteReaderAt) ReadAt(buf []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset: %d", off)
	}
	if off >= int64(len(br.data)) {
		return 0, io.EOF
	}

	bytesRead := copy(buf, br.data[off:])
	if bytesRead < len(buf) {
		return bytesRead, io.EOF
	}
	return bytesRead, nil
}

// memberCacheKey identifies one buffered member across archive instances.
type memberCacheKey struct {
	archive Reader
	path    string
}

// memberCache bounds the number of fully-inflated archive members kept
// around at once. Members read through OpenReaderAt are inflated via
// bufferFile, so caching the inflated bytes avoids re-decompressing the
// same ZIP/7z/RAR member when it is opened that way more than once.
var memberCache, _ = lru.New[memberCacheKey, []byte](64)

// bufferFile reads an archive member into memory, caching the result so
// repeated extraction of sibling lumps from one archive doesn't re-inflate
// the same member on every call.
//
//nolint:revive // 4 return values is necessary for this interface pattern
func bufferFile(arc Reader, internalPath string) (io.ReaderAt, int64, io.Closer, error) {
	key := memberCacheKey{archive: arc, path: strings.ToLower(internalPath)}
	if data, ok := memberCache.Get(key); ok {
		return &byteReaderAt{data: data}, int64(len(data)), nopCloser{}, nil
	}

	reader, size, err := arc.Open(internalPath)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open file in archive: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data := make([]byte, size)
	bytesRead, err := io.ReadFull(reader, data)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("read file from archive: %w", err)
	}

	memberCache.Add(key, data)
	return &byteReaderAt{data: data}, int64(bytesRead), nopCloser{}, nil
}
