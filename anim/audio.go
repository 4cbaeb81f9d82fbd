package anim

// #cgo linux CFLAGS: -I/uc/include/opus
// #cgo linux LDFLAGS: -L/uc/lib/x86_64-linux-gnu -lopus
// #include <opus.h>
import "C"
import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log"

	"github.com/dmisol/animface/lipsync"
	"github.com/dmisol/animface/relay"
	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/zaf/resample"
)

const (
	audiochan = 1
	opusRate  = 48000
	fifoLen   = 200
)

var (
	ErrDecoding = errors.New("Error decoding opus")
)

func newConv(dest io.Writer) (c *conv, err error) {
	c = &conv{
		dest: dest,
	}
	if c.res, err = resample.New(c.dest, float64(opusRate), float64(lipsync.MeterRate), audiochan, resample.I16, resample.HighQ); err != nil {
		c.Println("resampler creating", err)
		return
	}

	e := C.int(0)
	c.dec = C.opus_decoder_create(C.opus_int32(opusRate), C.int(audiochan), &e)
	if e != C.OPUS_OK {
		c.res.Close()
		err = ErrDecoding
	}
	return
}

// conv decodes opus and resamples it for the level meter.
type conv struct {
	dest io.Writer
	dec  *C.OpusDecoder
	res  *resample.Resampler
}

func (c *conv) Close() error {
	C.opus_decoder_destroy(c.dec)
	return c.res.Close()
}

func (c *conv) AppendRTP(p *rtp.Packet) (err error) {
	if len(p.Payload) == 0 {
		return
	}

	samplesPerFrame := int(C.opus_packet_get_samples_per_frame((*C.uchar)(&p.Payload[0]), C.opus_int32(opusRate)))
	pcm := make([]int16, samplesPerFrame*audiochan)
	samples := C.opus_decode(c.dec, (*C.uchar)(&p.Payload[0]), C.opus_int32(len(p.Payload)), (*C.opus_int16)(&pcm[0]), C.int(samplesPerFrame), 0)
	if samples < 0 {
		err = ErrDecoding
		return
	}

	pcmBuffer := bytes.NewBuffer(make([]byte, 0, 2*int(samples)*audiochan))
	binary.Write(pcmBuffer, binary.LittleEndian, pcm[:int(samples)*audiochan])
	err = c.AppendBytes(pcmBuffer.Bytes())
	return
}

func (c *conv) AppendBytes(b []byte) (err error) {
	if _, err = c.res.Write(b); err != nil {
		c.Println("resampling", err)
	}
	return
}

func (c *conv) Println(i ...interface{}) {
	log.Println("conv", i)
}

// AudioProc measures the owner's voice and passes the packets on, so the
// same track can be relayed.
type AudioProc struct {
	*conv
	src  relay.RtpReader
	fifo chan *rtp.Packet
}

// NewAudioProc starts reading src; the meter is fed 16 kHz pcm.
func NewAudioProc(src relay.RtpReader, meter io.Writer) (a *AudioProc, err error) {
	a = &AudioProc{
		src:  src,
		fifo: make(chan *rtp.Packet, fifoLen),
	}
	if a.conv, err = newConv(meter); err != nil {
		return
	}
	go a.run()
	return
}

func (a *AudioProc) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	p, ok := <-a.fifo
	if !ok {
		return nil, nil, io.EOF
	}
	return p, nil, nil
}

func (a *AudioProc) Close() (err error) {
	a.Println("closing")
	return a.src.Close()
}

func (a *AudioProc) run() {
	defer func() {
		close(a.fifo)
		a.conv.Close()
	}()

	for {
		p, _, err := a.src.ReadRTP()
		if err != nil {
			a.Println("rtp rd", err)
			return
		}
		select {
		case a.fifo <- p:
		default:
			// nobody relays, keep metering
		}
		if err = a.conv.AppendRTP(p); err != nil {
			a.Println("decode", err)
		}
	}
}

func (a *AudioProc) Println(i ...interface{}) {
	log.Println("audio", i)
}
