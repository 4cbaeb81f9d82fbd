package animface

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dmisol/animface/avatar"
	"github.com/dmisol/animface/defs"
	"github.com/dmisol/animface/morph"
	"github.com/dmisol/animface/wordtomotion"
	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/valyala/fasthttp"
)

const (
	lifetime = 2 * time.Hour
)

// Handler is the control surface. Everything touching the frame pipeline is
// queued and takes effect on the next frame.
//
//	POST/DELETE /avatar?path=xxx
//	/override?key=Joy&value=0.8  /clear  /reset  /skiplipsync?on=1
//	/trigger?name=joy  /stop  /expressions
//	/look?yaw=10&pitch=-5
//	POST /speech (defs.Anim json)
//	/state  /preview.png
//	/animate?name=xxx[&hall=yyy]
func (ap *AnimationPortal) Handler(r *fasthttp.RequestCtx) {
	switch string(r.Path()) {
	case "/avatar":
		ap.handleAvatar(r)
	case "/override":
		ap.handleOverride(r)
	case "/clear":
		ap.WTM.Do(ap.Engine.Clear)
	case "/reset":
		ap.WTM.Do(ap.Engine.ResetAndFlushOnce)
	case "/skiplipsync":
		on := string(r.FormValue("on"))
		skip := on == "1" || on == "true"
		ap.WTM.Do(func() { ap.Engine.SetSkipLipSyncKeys(skip) })
	case "/trigger":
		if err := ap.WTM.Trigger(string(r.FormValue("name"))); err != nil {
			code := fasthttp.StatusBadRequest
			if err == wordtomotion.ErrUnknownExpression {
				code = fasthttp.StatusNotFound
			}
			r.Error(err.Error(), code)
			return
		}
	case "/stop":
		ap.WTM.Stop()
	case "/expressions":
		ap.writeJson(r, ap.WTM.Expressions())
	case "/look":
		ap.handleLook(r)
	case "/speech":
		ap.handleSpeech(r)
	case "/state":
		ap.writeJson(r, ap.Status())
	case "/preview.png":
		b, err := ap.Preview.PNG()
		if err != nil {
			r.Error("can't render", fasthttp.StatusInternalServerError)
			return
		}
		r.SetContentType("image/png")
		r.SetBody(b)
	case "/animate":
		ap.handleAnimate(r)
	default:
		r.Error("not found", fasthttp.StatusNotFound)
	}
}

func (ap *AnimationPortal) handleAvatar(r *fasthttp.RequestCtx) {
	switch {
	case r.IsDelete():
		ap.WTM.Do(ap.Avatar.Release)
	case r.IsPost():
		d, err := avatar.ReadDescriptor(string(r.FormValue("path")))
		if err != nil {
			r.Error(err.Error(), fasthttp.StatusBadRequest)
			return
		}
		ap.WTM.Do(func() { ap.Avatar.Set(d) })
		r.SetStatusCode(fasthttp.StatusAccepted)
	default:
		r.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
	}
}

func (ap *AnimationPortal) handleOverride(r *fasthttp.RequestCtx) {
	key := morph.Key(r.FormValue("key"))
	if key == "" {
		r.Error("no key", fasthttp.StatusBadRequest)
		return
	}
	w, err := strconv.ParseFloat(string(r.FormValue("value")), 64)
	if err != nil {
		r.Error("bad value", fasthttp.StatusBadRequest)
		return
	}
	ap.WTM.Do(func() { ap.Engine.Add(key, w) })
}

func (ap *AnimationPortal) handleLook(r *fasthttp.RequestCtx) {
	yaw, err1 := strconv.ParseFloat(string(r.FormValue("yaw")), 64)
	pitch, err2 := strconv.ParseFloat(string(r.FormValue("pitch")), 64)
	if err1 != nil || err2 != nil {
		r.Error("bad angles", fasthttp.StatusBadRequest)
		return
	}
	ap.WTM.Do(func() { ap.Eyes.LookAt(yaw, pitch) })
}

func (ap *AnimationPortal) handleSpeech(r *fasthttp.RequestCtx) {
	if !r.IsPost() {
		r.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	var a defs.Anim
	if err := json.Unmarshal(r.PostBody(), &a); err != nil {
		r.Error("bad json", fasthttp.StatusBadRequest)
		return
	}

	at := ap.Status().Time - time.Duration(a.Ts)*time.Millisecond
	if a.Phones != nil {
		ap.Lip.SetVisemes(at, a.Phones)
	}
	ap.Lip.SetLevel(a.Level)
}

// /animate?name=xxx - hall's name is from conf
// /animate?name=xxx&hall=yyy
func (ap *AnimationPortal) handleAnimate(r *fasthttp.RequestCtx) {
	name := string(r.FormValue("name"))
	hall := string(r.FormValue("hall"))
	dummy := uuid.NewString()

	if name == "" {
		r.Error("no name", fasthttp.StatusBadRequest)
		return
	}
	if hall == "" {
		hall = ap.Hall
	}

	t, err := ap.signToken(lifetime, name, "", dummy)
	if err != nil {
		r.Error("can't make token", fasthttp.StatusInternalServerError)
		return
	}

	if _, err = ap.newUser(ap.Context, hall, dummy, name); err != nil {
		ap.Println("user", name, err)
		r.Error("can't start portal", fasthttp.StatusInternalServerError)
		return
	}
	ap.writeJson(r, defs.LkCtrl{Ws: ap.Ws, Token: t, Room: dummy, Name: name})
}

func (ap *AnimationPortal) writeJson(r *fasthttp.RequestCtx, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		r.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	r.SetContentType("application/json")
	r.SetBody(b)
}

func (ap *AnimationPortal) signToken(lifetime time.Duration, uid, name, room string) (token string, err error) {

	canPublish := true
	canSubscribe := true

	at := auth.NewAccessToken(ap.Key, ap.Secret)
	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         room,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at.AddGrant(grant).SetIdentity(uid)
	if len(name) > 0 {
		at.SetName(name)
	}
	at.SetValidFor(lifetime)

	token, err = at.ToJWT()
	return
}
