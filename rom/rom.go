// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rom reads program images from disk. Images may be stored raw or
// compressed with gzip, zip or 7-Zip, chosen by file extension. Archives
// yield their first file.
package rom

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/gochip8/cpu"
	"github.com/bodgit/sevenzip"
	"github.com/cespare/xxhash"
)

// ErrEmptyArchive is returned when an archive contains no files.
var ErrEmptyArchive = errors.New("archive contains no files")

// MaxArchiveSize bounds how much of a compressed image file is read.
const MaxArchiveSize = 1 << 16

// Load reads the file and decompresses it if its extension calls for it.
// Images larger than the program region fail with cpu.ErrRomTooLarge,
// without reading more than one byte past the limit.
func Load(filename string) ([]byte, error) {
	name, ext := filepath.Base(filename), filepath.Ext(filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	limit := cpu.MaxProgramSize
	if isArchive(ext) {
		limit = MaxArchiveSize
	}
	data, err := readLimited(f, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	b, err := Decode(ext, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

// Decode unpacks an image according to a file extension such as ".gz".
// Unrecognized extensions return the data as is. Decompression stops as
// soon as the image outgrows the program region.
func Decode(ext string, data []byte) ([]byte, error) {
	var (
		decoder io.Reader
		err     error
	)

	switch strings.ToLower(ext) {
	case ".gz":
		decoder, err = gzip.NewReader(bytes.NewReader(data))
	case ".zip":
		decoder, err = openZip(data)
	case ".7z":
		decoder, err = open7z(data)
	default:
		if len(data) > cpu.MaxProgramSize {
			return nil, cpu.ErrRomTooLarge
		}
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if c, ok := decoder.(io.Closer); ok {
		defer c.Close()
	}
	return readLimited(decoder, cpu.MaxProgramSize)
}

func isArchive(ext string) bool {
	switch strings.ToLower(ext) {
	case ".gz", ".zip", ".7z":
		return true
	default:
		return false
	}
}

func readLimited(r io.Reader, limit int) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(b) > limit {
		return nil, cpu.ErrRomTooLarge
	}
	return b, nil
}

func openZip(data []byte) (io.Reader, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if len(r.File) == 0 {
		return nil, ErrEmptyArchive
	}
	return r.File[0].Open()
}

func open7z(data []byte) (io.Reader, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	if len(r.File) == 0 {
		return nil, ErrEmptyArchive
	}
	return r.File[0].Open()
}

// Fingerprint returns a stable hash of an image, used to identify a ROM
// regardless of its file name or container.
func Fingerprint(b []byte) uint64 {
	return xxhash.Sum64(b)
}
