package relay

import (
	"context"
	"io"
	"testing"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedReader struct {
	packets []*rtp.Packet
	closed  bool
}

func (f *fixedReader) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if len(f.packets) == 0 {
		return nil, nil, io.EOF
	}
	p := f.packets[0]
	f.packets = f.packets[1:]
	return p, nil, nil
}

func (f *fixedReader) Close() error {
	f.closed = true
	return nil
}

func TestOpusReadCloser(t *testing.T) {
	f := &fixedReader{packets: []*rtp.Packet{
		{Payload: []byte{1, 2, 3}},
		{Payload: []byte{4}},
	}}
	rc := NewOpusReadCloser(f)
	b := make([]byte, 16)

	n, err := rc.Read(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b[:n])

	n, err = rc.Read(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, b[:n])

	_, err = rc.Read(b)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, rc.Close())
	assert.True(t, f.closed)
}

func TestNewRtpReaderRejectsUnknown(t *testing.T) {
	_, err := NewRtpReader(context.Background(), "nope")
	assert.Error(t, err)
}

func TestUdpReaderStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rr, err := NewRtpReader(ctx, 0)
	require.NoError(t, err)

	cancel()
	_, _, err = rr.ReadRTP()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTrackReaderStopsOnClose(t *testing.T) {
	rr, err := NewRtpReader(context.Background(), &webrtc.TrackRemote{})
	require.NoError(t, err)

	require.NoError(t, rr.Close())
	_, _, err = rr.ReadRTP()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestTrackReaderStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rr, err := NewRtpReader(ctx, &webrtc.TrackRemote{})
	require.NoError(t, err)

	cancel()
	_, _, err = rr.ReadRTP()
	assert.ErrorIs(t, err, ErrClosed)
}
