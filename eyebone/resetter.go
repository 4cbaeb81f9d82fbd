package eyebone

import (
	"sync/atomic"

	"github.com/dmisol/animface/frame"
)

// Resetter is a one-shot request for eye bone realignment.
type Resetter struct {
	reserved int32
}

func (r *Resetter) ReserveReset() {
	atomic.StoreInt32(&r.reserved, 1)
}

// Consume reports whether a reset was reserved and clears the request.
func (r *Resetter) Consume() bool {
	return atomic.SwapInt32(&r.reserved, 0) == 1
}

func (r *Resetter) Reserved() bool {
	return atomic.LoadInt32(&r.reserved) == 1
}

// Pose is the eye bone rotation, in degrees, following a look target.
type Pose struct {
	*Resetter

	Yaw, Pitch float64

	// Speed is the fraction of the remaining distance covered per second.
	Speed float64

	targetYaw, targetPitch float64
}

func NewPose(r *Resetter) *Pose {
	return &Pose{Resetter: r, Speed: 8}
}

// LookAt sets the target rotation.
func (p *Pose) LookAt(yaw, pitch float64) {
	p.targetYaw, p.targetPitch = yaw, pitch
}

// Update moves the pose toward the target, or snaps it to neutral when a
// reset was reserved during the previous frame.
func (p *Pose) Update(t frame.Tick) {
	if p.Consume() {
		p.Yaw, p.Pitch = 0, 0
		return
	}

	k := p.Speed * t.Delta.Seconds()
	if k > 1 {
		k = 1
	}
	p.Yaw += (p.targetYaw - p.Yaw) * k
	p.Pitch += (p.targetPitch - p.Pitch) * k
}
