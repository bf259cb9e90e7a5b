package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is an ISO-BMFF ftyp box so stub inputs look like MP4 files to
// anything that sniffs the first bytes.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

// WriteMedia creates a stub video of exactly size bytes at path, creating
// parent directories. Sizes smaller than the header are raised to fit it.
// It returns path for convenience.
func WriteMedia(t testing.TB, path string, size int64) string {
	t.Helper()

	if size < int64(len(mp4Header)) {
		size = int64(len(mp4Header))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(mp4Header); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	padding := bytes.Repeat([]byte{0x42}, 32*1024)
	for remaining := size - int64(len(mp4Header)); remaining > 0; {
		chunk := min(remaining, int64(len(padding)))
		if _, err := f.Write(padding[:chunk]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= chunk
	}
	return path
}
