package relay

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
)

var ErrClosed = errors.New("rtp reader closed")

type RtpReader interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
	Close() (err error)
}

// NewRtpReader reads a remote track, or listens on a udp port when given an int.
func NewRtpReader(ctx context.Context, in interface{}) (rr RtpReader, err error) {
	switch v := in.(type) {
	case int:
		rr = newUdpRtpReader(ctx, v)
	case *webrtc.TrackRemote:
		rr = newTrackRtpReader(ctx, v)
	default:
		err = errors.New("can't make RtpReader")
	}
	return
}

func newUdpRtpReader(ctx context.Context, port int) *UdpReader {
	u := &UdpReader{
		mq:   make(chan []byte, rtpqueue),
		Port: port,
	}
	u.ctx, u.cancel = context.WithCancel(ctx)
	return u
}

// UdpReader receives plain rtp datagrams, e.g. from a local ffmpeg.
type UdpReader struct {
	ctx    context.Context
	cancel context.CancelFunc
	Port   int

	mq   chan []byte
	once sync.Once
}

func (r *UdpReader) start() {
	udp, err := net.ListenUDP("udp", &net.UDPAddr{Port: r.Port})
	if err != nil {
		r.Println(err)
		r.cancel()
		return
	}
	udp.SetReadBuffer(rtplinuxbuf)

	go func() {
		<-r.ctx.Done()
		udp.Close()
	}()

	go func() {
		defer r.Println("closing", r.Port)

		r.Println("starting rtp thread", r.Port)
		for {
			p := make([]byte, 1500)
			n, _, err := udp.ReadFrom(p)
			if err != nil {
				r.Println("udp rd", err)
				r.cancel()
				return
			}
			select {
			case r.mq <- p[:n]:
			default:
				r.Println("queue full, dropping")
			}
		}
	}()
}

func (r *UdpReader) ReadRTP() (packet *rtp.Packet, attr interceptor.Attributes, err error) {
	r.once.Do(r.start)

	select {
	case <-r.ctx.Done():
		err = ErrClosed
	case p := <-r.mq:
		packet = &rtp.Packet{}
		err = packet.Unmarshal(p)
	}
	return
}

func (r *UdpReader) Close() (err error) {
	r.cancel()
	return
}

func (r *UdpReader) Println(i ...interface{}) {
	log.Println("udp", i)
}

func newTrackRtpReader(ctx context.Context, t *webrtc.TrackRemote) *TrackRtpReader {
	r := &TrackRtpReader{TrackRemote: t}
	r.ctx, r.cancel = context.WithCancel(ctx)
	return r
}

// TrackRtpReader reads a remote track until closed. A read already blocked
// on the track returns ErrClosed once its packet arrives.
type TrackRtpReader struct {
	*webrtc.TrackRemote
	ctx    context.Context
	cancel context.CancelFunc
}

func (r *TrackRtpReader) ReadRTP() (packet *rtp.Packet, attr interceptor.Attributes, err error) {
	if r.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}
	packet, attr, err = r.TrackRemote.ReadRTP()
	if r.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}
	return
}

func (r *TrackRtpReader) Close() (err error) {
	r.cancel()
	return
}
