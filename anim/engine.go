package anim

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/dmisol/animface/lipsync"
	"github.com/dmisol/animface/preview"
	"github.com/dmisol/animface/relay"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/pion/webrtc/v3"
)

// Engine feeds a room with the avatar: the owner's voice drives lip-sync
// and is relayed, the preview is published as video.
type Engine struct {
	context.Context
	context.CancelFunc

	*relay.Relay
	Lip     *lipsync.Writer
	Preview *preview.Renderer

	fps     int
	started int32
}

func NewEngine(ctx context.Context, room *lksdk.Room, lip *lipsync.Writer, pv *preview.Renderer, fps int) (e *Engine, err error) {
	e = &Engine{
		Lip:     lip,
		Preview: pv,
		fps:     fps,
	}
	e.Context, e.CancelFunc = context.WithCancel(ctx)
	if e.Relay, err = relay.NewRelay(e.Context, room); err != nil {
		e.CancelFunc()
	}
	return
}

// OnAudioTrack takes the owner's voice from a remote track.
func (e *Engine) OnAudioTrack(remote *webrtc.TrackRemote) {
	e.onAudio(remote)
}

func (e *Engine) onAudio(in interface{}) {
	a, err := Listen(e.Context, in, e.Lip)
	if err != nil {
		e.Println("audio", err)
		return
	}

	e.Relay.AddRtpReader(a, "voice")
	e.startVideo()
}

// Listen meters voice from a remote track or udp port into lip until ctx is
// done. The returned reader replays the packets for relaying.
func Listen(ctx context.Context, in interface{}, lip *lipsync.Writer) (a *AudioProc, err error) {
	var rr relay.RtpReader
	if rr, err = relay.NewRtpReader(ctx, in); err != nil {
		return
	}
	if a, err = NewAudioProc(rr, lipsync.NewMeter(lip.SetLevel)); err != nil {
		rr.Close()
		return
	}
	go func() {
		<-ctx.Done()
		a.Close()
	}()
	return
}

// startVideo publishes the preview once, on the first audio track.
func (e *Engine) startVideo() {
	if atomic.AddInt32(&e.started, 1) != 1 {
		return
	}

	enc := preview.NewEncoder(e.Preview, e.fps)
	go func() {
		if err := enc.Run(e.Context, e.Preview.W, e.Preview.H); err != nil {
			e.Println("video", err)
		}
	}()
	e.Relay.AddReadCloser(enc, webrtc.MimeTypeH264, "avatar")
}

func (e *Engine) Close() {
	e.CancelFunc()
}

func (e *Engine) Println(i ...interface{}) {
	log.Println("anim", i)
}
