package b64stream

import (
	"io"

	"github.com/ericlagergren/b64stream/internal/subtle"
)

// SkipNewlines returns an io.Reader that removes the newline
// characters '\r' and '\n' from r.
//
// Use it in front of a Reader to decode line-wrapped base64,
// such as MIME bodies.
//
// It runs in constant time.
func SkipNewlines(r io.Reader) io.Reader {
	return &newlineSkipper{r: r}
}

type newlineSkipper struct {
	r io.Reader
}

func (s *newlineSkipper) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	for n > 0 {
		w := 0
		for _, b := range p[:n] {
			p[w] = b
			nl := subtle.ConstantTimeByteEq(b, '\r') |
				subtle.ConstantTimeByteEq(b, '\n')
			w += nl ^ 1
		}
		// Don't drop an error that arrives with only newlines.
		if w > 0 || err != nil {
			return w, err
		}
		// Only newlines; read again.
		n, err = s.r.Read(p)
	}
	return n, err
}
