package zstd_test

import (
	"io"
	"io/ioutil"
	"os"
	"testing"

	"github.com/m-lab/go/rtx"
	"github.com/m-lab/rtnetlink/zstd"
)

func TestRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "TestRoundTrip")
	rtx.Must(err, "Could not create tempdir")
	defer os.RemoveAll(dir)
	fn := dir + "/test.zst"

	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte((i * 37) % 256)
	}

	w, err := zstd.NewWriter(fn)
	rtx.Must(err, "Could not create writer")
	_, err = w.Write(data)
	if err != nil {
		t.Fatal(err)
	}
	rtx.Must(w.Close(), "Could not close writer")

	read := make([]byte, 20000)
	r, err := zstd.NewReader(fn)
	rtx.Must(err, "Could not create reader")
	defer r.Close()
	// Interesting...  Sometimes this requires multiple calls to read.
	n, err := io.ReadAtLeast(r, read, 10000)
	if err != nil {
		t.Error(err)
	}
	if n != 10000 {
		t.Error("Wrong number of bytes", n)
	}

	for i := range data {
		if data[i] != read[i] {
			t.Fatal("Data mismatch at", i)
		}
	}
}

func TestReaderMissingFile(t *testing.T) {
	_, err := zstd.NewReader("/this/file/does/not/exist.zst")
	if err == nil {
		t.Error("Should have had an error on a nonexistent file")
	}
}
