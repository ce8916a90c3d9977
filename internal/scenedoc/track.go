package scenedoc

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Channel names an animatable vector property of an object.
type Channel string

const (
	ChannelLocation Channel = "location"
	ChannelScale    Channel = "scale"
)

// Key is one sampled value on a track.
type Key struct {
	Frame int
	Value mgl32.Vec3
}

// Track holds the keyframes of one channel, sorted by frame.
type Track struct {
	Channel Channel
	Keys    []Key
}

// Insert adds a key, replacing any existing key on the same frame.
func (t *Track) Insert(frame int, value mgl32.Vec3) {
	i := sort.Search(len(t.Keys), func(i int) bool { return t.Keys[i].Frame >= frame })
	if i < len(t.Keys) && t.Keys[i].Frame == frame {
		t.Keys[i].Value = value
		return
	}
	t.Keys = append(t.Keys, Key{})
	copy(t.Keys[i+1:], t.Keys[i:])
	t.Keys[i] = Key{Frame: frame, Value: value}
}

// Evaluate samples the track at the given frame with linear interpolation,
// clamping to the first and last keys outside the keyed range.
func (t *Track) Evaluate(frame float32) mgl32.Vec3 {
	if len(t.Keys) == 0 {
		return mgl32.Vec3{}
	}
	if frame <= float32(t.Keys[0].Frame) {
		return t.Keys[0].Value
	}
	last := t.Keys[len(t.Keys)-1]
	if frame >= float32(last.Frame) {
		return last.Value
	}
	i := sort.Search(len(t.Keys), func(i int) bool { return float32(t.Keys[i].Frame) > frame })
	a := t.Keys[i-1]
	b := t.Keys[i]
	u := (frame - float32(a.Frame)) / float32(b.Frame-a.Frame)
	return lerpVec3(a.Value, b.Value, u)
}

// Frames returns the keyed frame numbers in order.
func (t *Track) Frames() []int {
	out := make([]int, len(t.Keys))
	for i, k := range t.Keys {
		out[i] = k.Frame
	}
	return out
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
