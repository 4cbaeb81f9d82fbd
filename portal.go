// Package animface drives an avatar's expression: writers accumulate blend
// shape weights every frame, and an override engine can take exclusive
// control of them for word-to-motion expressions.
package animface

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dmisol/animface/anim"
	"github.com/dmisol/animface/avatar"
	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/blink"
	"github.com/dmisol/animface/defs"
	"github.com/dmisol/animface/eyebone"
	"github.com/dmisol/animface/frame"
	"github.com/dmisol/animface/lipsync"
	"github.com/dmisol/animface/override"
	"github.com/dmisol/animface/preview"
	"github.com/dmisol/animface/wordtomotion"
)

// Status is a snapshot taken after each frame.
type Status struct {
	Frame       uint64             `json:"frame"`
	Time        time.Duration      `json:"time"`
	Avatar      string             `json:"avatar,omitempty"`
	AvatarID    string             `json:"avatar_id,omitempty"`
	State       string             `json:"state"`
	Overrides   map[string]float64 `json:"overrides,omitempty"`
	Weights     map[string]float64 `json:"weights,omitempty"`
	SkipLipSync bool               `json:"skip_lip_sync"`
	Playing     string             `json:"playing,omitempty"`
	EyeYaw      float64            `json:"eye_yaw"`
	EyePitch    float64            `json:"eye_pitch"`
}

type AnimationPortal struct {
	*defs.PortalConf

	context.Context
	context.CancelFunc

	Frames  *frame.Scheduler
	Engine  *override.Engine
	Avatar  *avatar.Controller
	Lip     *lipsync.Writer
	Blink   *blink.Writer
	Eyes    *eyebone.Pose
	WTM     *wordtomotion.Dispatcher
	Preview *preview.Renderer

	// frame thread only
	buf  *blendshape.Buffer
	info avatar.Info

	mu     sync.Mutex
	status Status
	users  map[string]*user
}

// NewPortal reads the config and wires the frame pipeline. The avatar named
// in the config, if any, is loaded before returning.
func NewPortal(conf string) (ap *AnimationPortal, err error) {
	var c *defs.PortalConf
	if c, err = defs.LoadConf(conf); err != nil {
		return
	}

	resetter := &eyebone.Resetter{}
	ap = &AnimationPortal{
		PortalConf: c,
		Frames:     frame.NewScheduler(),
		Engine:     override.NewEngine(resetter),
		Lip:        lipsync.NewWriter(c.LipSync.Gain),
		Blink:      blink.NewWriter(c.Blink.Interval, c.Blink.Duration),
		Eyes:       eyebone.NewPose(resetter),
		Preview:    preview.NewRenderer(c.Preview.W, c.Preview.H),
		users:      make(map[string]*user),
	}
	ap.Context, ap.CancelFunc = context.WithCancel(context.Background())
	ap.Avatar = avatar.NewController(ap.Preview)
	ap.WTM = wordtomotion.NewDispatcher(ap.Engine, c.Expressions)

	ap.Avatar.OnDisposing(ap.onDisposing)
	ap.Avatar.OnPreLoaded(ap.onPreLoaded)
	ap.Avatar.OnLoaded(ap.onLoaded)

	if err = ap.hook(); err != nil {
		ap.CancelFunc()
		return nil, err
	}

	if c.Avatar != "" {
		if _, err = ap.Avatar.Load(c.Avatar); err != nil {
			ap.CancelFunc()
			return nil, err
		}
	}
	return
}

func (ap *AnimationPortal) hook() (err error) {
	hooks := []struct {
		name  string
		phase frame.Phase
		fn    frame.Hook
		final bool
	}{
		{"wtm", frame.Early, ap.WTM.Update, false},
		{"override.early", frame.Early, func(frame.Tick) { ap.Engine.EarlyUpdate() }, false},
		{"eyes", frame.Early, ap.Eyes.Update, false},
		{"lipsync", frame.Write, func(t frame.Tick) { ap.Lip.Write(ap.accumulator(), t) }, false},
		{"blink", frame.Write, func(t frame.Tick) { ap.Blink.Write(ap.accumulator(), t) }, false},
		{"override.late", frame.Late, func(frame.Tick) { ap.Engine.LateUpdate() }, true},
		{"status", frame.Post, ap.snapshot, false},
	}
	for _, h := range hooks {
		if h.final {
			err = ap.Frames.RegisterFinal(h.name, h.phase, h.fn)
		} else {
			err = ap.Frames.Register(h.name, h.phase, h.fn)
		}
		if err != nil {
			return
		}
	}
	return
}

// accumulator keeps a nil buffer a nil interface.
func (ap *AnimationPortal) accumulator() blendshape.Accumulator {
	if ap.buf == nil {
		return nil
	}
	return ap.buf
}

// onPreLoaded starts a new avatar looking straight ahead.
func (ap *AnimationPortal) onPreLoaded(i avatar.Info) {
	ap.Println("loading", i.Name, i.ID)
	ap.Eyes.LookAt(0, 0)
	ap.Eyes.ReserveReset()
}

func (ap *AnimationPortal) onLoaded(i avatar.Info) {
	ap.buf = i.Buffer
	ap.info = i
	ap.Engine.Activate(i.Buffer, i.Keys)
}

func (ap *AnimationPortal) onDisposing() {
	ap.WTM.Abort()
	ap.Engine.Deactivate()
	ap.buf = nil
	ap.info = avatar.Info{}
	ap.Preview.Reset()
}

func (ap *AnimationPortal) snapshot(t frame.Tick) {
	s := Status{
		Frame:       t.Index,
		Time:        t.Time,
		Avatar:      ap.info.Name,
		AvatarID:    ap.info.ID,
		State:       ap.Engine.State().String(),
		SkipLipSync: ap.Engine.SkipLipSyncKeys(),
		Playing:     ap.WTM.Playing(),
		EyeYaw:      ap.Eyes.Yaw,
		EyePitch:    ap.Eyes.Pitch,
	}
	if o := ap.Engine.Overrides(); len(o) > 0 {
		s.Overrides = make(map[string]float64, len(o))
		for k, w := range o {
			s.Overrides[string(k)] = w
		}
	}
	if ap.buf != nil {
		c := ap.buf.Snapshot()
		s.Weights = make(map[string]float64, len(c))
		for k, w := range c {
			s.Weights[string(k)] = w
		}
	}

	ap.mu.Lock()
	defer ap.mu.Unlock()
	ap.status = s
}

// Status is the snapshot of the last frame.
func (ap *AnimationPortal) Status() Status {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	return ap.status
}

// Run drives frames until ctx or the portal is done.
func (ap *AnimationPortal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-ap.Context.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	return ap.Frames.Run(ctx, ap.FPS)
}

// ListenUdp takes the owner's voice as rtp on a local udp port.
func (ap *AnimationPortal) ListenUdp(ctx context.Context, port int) error {
	_, err := anim.Listen(ctx, port, ap.Lip)
	return err
}

func (ap *AnimationPortal) Close() {
	ap.CancelFunc()

	ap.mu.Lock()
	users := make([]*user, 0, len(ap.users))
	for _, u := range ap.users {
		users = append(users, u)
	}
	ap.mu.Unlock()

	for _, u := range users {
		u.Close()
	}
}

func (ap *AnimationPortal) Println(i ...interface{}) {
	log.Println("portal", i)
}
