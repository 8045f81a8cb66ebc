package b64stream

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/ericlagergren/b64stream/base64"
)

const wrapped = "SGVs\r\nbG8s\nIFdv\r\n\r\ncmxkIQ==\n"

func TestSkipNewlines(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  io.Reader
	}{
		{"reader", strings.NewReader(wrapped)},
		{"onebyte", iotest.OneByteReader(strings.NewReader(wrapped))},
		{"half", iotest.HalfReader(strings.NewReader(wrapped))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := io.ReadAll(SkipNewlines(tc.src))
			require.NoError(t, err)
			require.Equal(t, "SGVsbG8sIFdvcmxkIQ==", string(got))
		})
	}
}

func TestSkipNewlinesOnly(t *testing.T) {
	got, err := io.ReadAll(SkipNewlines(strings.NewReader("\r\n\n\r")))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSkipNewlinesReader(t *testing.T) {
	src := iotest.OneByteReader(strings.NewReader(wrapped))
	r := NewReader(base64.StdEncoding, SkipNewlines(src))
	got := mustReadAll(t, r, 5)
	require.Equal(t, "Hello, World!", string(got))
}

// TestSkipNewlinesError tests that an error returned with a
// chunk of only newlines is not lost.
func TestSkipNewlinesError(t *testing.T) {
	errBoom := errors.New("boom")
	r := SkipNewlines(&scriptReader{steps: []step{
		{"\r\n", errBoom},
		{"QUJD", nil},
	}})
	p := make([]byte, 16)

	n, err := r.Read(p)
	require.Zero(t, n)
	require.ErrorIs(t, err, errBoom)

	n, err = r.Read(p)
	require.NoError(t, err)
	require.Equal(t, "QUJD", string(p[:n]))
}
