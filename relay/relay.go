package relay

import (
	"context"
	"io"
	"log"

	lksdk "github.com/livekit/server-sdk-go"
	webrtc "github.com/pion/webrtc/v3"
)

const (
	rtpqueue    = 200
	rtplinuxbuf = 200000
)

// NewRelay publishes into room until ctx is done, then disconnects.
func NewRelay(ctx context.Context, room *lksdk.Room) (r *Relay, err error) {
	r = &Relay{Room: room}
	r.Context, r.CancelFunc = context.WithCancel(ctx)

	go func() {
		<-r.Context.Done()
		r.Room.Disconnect()
	}()
	return
}

type Relay struct {
	*lksdk.Room

	context.Context
	context.CancelFunc
}

// AddRtpReader republishes opus packets, e.g. the owner's voice next to the
// avatar video.
func (r *Relay) AddRtpReader(rr RtpReader, name string) {
	track, err := lksdk.NewLocalReaderTrack(NewOpusReadCloser(rr), webrtc.MimeTypeOpus)
	if err != nil {
		r.Println("local track", err)
		return
	}

	if _, err = r.Room.LocalParticipant.PublishTrack(track, &lksdk.TrackPublicationOptions{Name: name}); err != nil {
		r.Println("addRtp", err)
		return
	}
	r.Println("relaying rtp", name)
}

// AddReadCloser publishes an encoded stream of the given mime type.
func (r *Relay) AddReadCloser(rc io.ReadCloser, mime string, name string) {
	track, err := lksdk.NewLocalReaderTrack(rc, mime)
	if err != nil {
		r.Println("local track", err)
		return
	}

	if _, err = r.Room.LocalParticipant.PublishTrack(track, &lksdk.TrackPublicationOptions{Name: name}); err != nil {
		r.Println("addRc", err)
		return
	}
	r.Println("publishing", name, mime)
}

func (r *Relay) Close() {
	r.Println("closing")
	r.CancelFunc()
}

func (r *Relay) Println(i ...interface{}) {
	log.Println("relay", i)
}
