package rom_test

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/gochip8/cpu"
	"github.com/beevik/gochip8/rom"
	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

var program = []byte{0x00, 0xe0, 0xa2, 0x2a, 0x60, 0x0c, 0xd0, 0x15, 0x12, 0x08}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(filename, b, 0o644))
	return filename
}

func TestLoadRaw(t *testing.T) {
	b, err := rom.Load(writeFile(t, "maze.ch8", program))
	assert.NoError(t, err)
	if diff := cmp.Diff(program, b); diff != "" {
		t.Errorf("raw image: (-want, +got)\n%s", diff)
	}
}

func TestLoadGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(program)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	b, err := rom.Load(writeFile(t, "maze.ch8.gz", buf.Bytes()))
	assert.NoError(t, err)
	if diff := cmp.Diff(program, b); diff != "" {
		t.Errorf("gzip image: (-want, +got)\n%s", diff)
	}
}

func TestLoadZip(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("maze.ch8")
	assert.NoError(t, err)
	_, err = f.Write(program)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	b, err := rom.Load(writeFile(t, "MAZE.ZIP", buf.Bytes()))
	assert.NoError(t, err)
	if diff := cmp.Diff(program, b); diff != "" {
		t.Errorf("zip image: (-want, +got)\n%s", diff)
	}
}

func TestLoadEmptyZip(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, zip.NewWriter(&buf).Close())

	_, err := rom.Load(writeFile(t, "empty.zip", buf.Bytes()))
	assert.ErrorContains(t, err, rom.ErrEmptyArchive.Error())
}

func TestLoadCorrupt(t *testing.T) {
	_, err := rom.Load(writeFile(t, "bad.7z", program))
	assert.Error(t, err)

	_, err = rom.Load(writeFile(t, "bad.gz", program))
	assert.Error(t, err)

	_, err = rom.Load(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
}

func TestDecodeTooLarge(t *testing.T) {
	// A small gzip stream that inflates to 16 MiB.
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	zeros := make([]byte, 1<<20)
	for i := 0; i < 16; i++ {
		_, err := w.Write(zeros)
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	assert.True(t, buf.Len() < rom.MaxArchiveSize)

	_, err := rom.Decode(".gz", buf.Bytes())
	assert.True(t, errors.Is(err, cpu.ErrRomTooLarge))

	_, err = rom.Load(writeFile(t, "bomb.ch8.gz", buf.Bytes()))
	assert.True(t, errors.Is(err, cpu.ErrRomTooLarge))
	assert.ErrorContains(t, err, "bomb.ch8.gz")

	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	f, err := zw.Create("big.ch8")
	assert.NoError(t, err)
	_, err = f.Write(make([]byte, cpu.MaxProgramSize+1))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	_, err = rom.Decode(".zip", zbuf.Bytes())
	assert.True(t, errors.Is(err, cpu.ErrRomTooLarge))
}

func TestLoadRawLimit(t *testing.T) {
	b, err := rom.Load(writeFile(t, "full.ch8", make([]byte, cpu.MaxProgramSize)))
	assert.NoError(t, err)
	assert.Equal(t, cpu.MaxProgramSize, len(b))

	_, err = rom.Load(writeFile(t, "big.ch8", make([]byte, cpu.MaxProgramSize+1)))
	assert.True(t, errors.Is(err, cpu.ErrRomTooLarge))

	_, err = rom.Decode(".ch8", make([]byte, cpu.MaxProgramSize+1))
	assert.True(t, errors.Is(err, cpu.ErrRomTooLarge))
}

func TestFingerprint(t *testing.T) {
	a := rom.Fingerprint(program)
	assert.Equal(t, a, rom.Fingerprint(append([]byte(nil), program...)))
	assert.True(t, a != rom.Fingerprint(program[1:]))
}
