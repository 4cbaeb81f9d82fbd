package relay

import (
	"io"
	"log"
	"sync"
)

// NewOpusReadCloser hands out one opus payload per Read.
func NewOpusReadCloser(rr RtpReader) io.ReadCloser {
	return &OpusReadCloser{rtpReader: rr}
}

type OpusReadCloser struct {
	mu        sync.Mutex
	rtpReader RtpReader
}

func (o *OpusReadCloser) Read(b []byte) (n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, _, err := o.rtpReader.ReadRTP()
	if err != nil {
		o.Println("rtp read err", err)
		return
	}
	n = copy(b, p.Payload)
	return
}

func (o *OpusReadCloser) Close() error {
	return o.rtpReader.Close()
}

func (o *OpusReadCloser) Println(i ...interface{}) {
	log.Println("opus", i)
}
