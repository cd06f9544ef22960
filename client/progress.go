package client

import "io"

// progressReader reports the fraction of bytes read as they stream
// through. The callback runs synchronously with each chunk.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    func(frac float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.fn != nil && p.total > 0 {
			frac := float64(p.read) / float64(p.total)
			if frac > 1 {
				frac = 1
			}
			p.fn(frac)
		}
	}
	return n, err
}
