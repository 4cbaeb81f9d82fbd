package animface

import (
	"context"
	"log"

	"github.com/dmisol/animface/anim"
	lksdk "github.com/livekit/server-sdk-go"
	webrtc "github.com/pion/webrtc/v3"
)

// newUser joins the user's private room, where the owner's voice is picked
// up, and the hall, where the avatar is published in the owner's name.
func (ap *AnimationPortal) newUser(ctx context.Context, hall string, dummy string, name string) (p *user, err error) {
	p = &user{
		Owner: name,
		room:  dummy,
	}
	p.Context, p.CancelFunc = context.WithTimeout(ctx, lifetime)

	if p.Hall, err = lksdk.ConnectToRoom(ap.Ws, lksdk.ConnectInfo{
		APIKey:              ap.Key,
		APISecret:           ap.Secret,
		RoomName:            hall,
		ParticipantIdentity: name,
	}, &lksdk.RoomCallback{}); err != nil {
		p.CancelFunc()
		return nil, err
	}

	if p.Engine, err = anim.NewEngine(p.Context, p.Hall, ap.Lip, ap.Preview, ap.FPS); err != nil {
		p.Close()
		return nil, err
	}

	if p.Dummy, err = lksdk.ConnectToRoom(ap.Ws, lksdk.ConnectInfo{
		APIKey:              ap.Key,
		APISecret:           ap.Secret,
		RoomName:            dummy,
		ParticipantIdentity: "anim",
	}, &lksdk.RoomCallback{
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackPublished:   p.published,
			OnTrackSubscribed:  p.dummyCb,
			OnTrackUnpublished: p.stop,
		},
	}, func(cp *lksdk.ConnectParams) { cp.AutoSubscribe = false }); err != nil {
		p.Close()
		return nil, err
	}

	ap.mu.Lock()
	ap.users[dummy] = p
	ap.mu.Unlock()

	go func() {
		<-p.Context.Done()
		p.Println("portal closed", p.Owner)
		p.Close()

		ap.mu.Lock()
		delete(ap.users, dummy)
		ap.mu.Unlock()
	}()
	return
}

func (p *user) published(publication *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
	if rp.Identity() != p.Owner || publication.Kind() != lksdk.TrackKindAudio {
		return
	}
	if err := publication.SetSubscribed(true); err != nil {
		p.Println("subscribe", err)
	}
}

func (p *user) stop(publication *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
	if rp.Identity() == p.Owner {
		p.Println("owner left, closing")
		p.CancelFunc()
	}
}

func (p *user) Close() {

	if p.Dummy != nil {
		p.Dummy.Disconnect()
	}
	if p.Engine != nil {
		p.Engine.Close()
	} else if p.Hall != nil {
		p.Hall.Disconnect()
	}

	p.CancelFunc()
}

func (p *user) Println(i ...interface{}) {
	log.Println("user", i)
}

type user struct {
	*anim.Engine

	context.Context
	context.CancelFunc

	room string

	Dummy, Hall *lksdk.Room // owner's private room and the hall the avatar is shown in
	Owner       string
}

func (p *user) dummyCb(remote *webrtc.TrackRemote, publication *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
	if p.Owner != rp.Identity() {
		return
	}
	if remote.Kind() != webrtc.RTPCodecTypeAudio {
		return
	}
	p.Engine.OnAudioTrack(remote)
}
