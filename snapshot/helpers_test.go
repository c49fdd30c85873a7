package snapshot

import (
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func mustEncoder(t *testing.T, w io.Writer) *zstd.Encoder {
	t.Helper()
	enc, err := zstd.NewWriter(w)
	if err != nil {
		t.Fatal(err)
	}
	return enc
}
