// Package dummyclient plays an audio file into a room as if the avatar's
// owner was speaking.
package dummyclient

import (
	"context"
	"log"
	"time"

	"github.com/dmisol/animface/defs"
	lksdk "github.com/livekit/server-sdk-go"
)

const (
	lkAudioFrame = 20 * time.Millisecond
)

// Play publishes filename into roomName as botname and stays until ctx is done.
func Play(ctx context.Context, roomName string, botname string, filename string, c defs.PortalConf) error {
	room, err := lksdk.ConnectToRoom(c.Ws, lksdk.ConnectInfo{
		APIKey:              c.Key,
		APISecret:           c.Secret,
		RoomName:            roomName,
		ParticipantIdentity: botname,
		ParticipantName:     botname,
	}, nil)
	if err != nil {
		log.Println("dummy", "can't connect", roomName, err)
		return err
	}
	defer room.Disconnect()

	done := make(chan struct{})
	if err = publishFile(room, filename, func() { close(done) }); err != nil {
		log.Println("dummy", "audio pub", err)
		return err
	}

	select {
	case <-ctx.Done():
	case <-done:
		log.Println("dummy", "finished", filename)
	}
	return nil
}

func publishFile(room *lksdk.Room, filename string, onDone func()) error {
	var pub *lksdk.LocalTrackPublication
	track, err := lksdk.NewLocalFileTrack(filename,
		lksdk.ReaderTrackWithFrameDuration(lkAudioFrame),
		lksdk.ReaderTrackWithOnWriteComplete(func() {
			if pub != nil {
				_ = room.LocalParticipant.UnpublishTrack(pub.SID())
			}
			onDone()
		}),
	)
	if err != nil {
		return err
	}
	pub, err = room.LocalParticipant.PublishTrack(track, &lksdk.TrackPublicationOptions{
		Name: filename,
	})
	return err
}
