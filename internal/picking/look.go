package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxPitch keeps the view just short of straight up or down.
const MaxPitch = math.Pi/2 - 1e-3

// Look is a first-person view direction in spherical coordinates.
type Look struct {
	Yaw   float64 // radians, 0 looks along -Z, increasing turns toward -X
	Pitch float64 // radians, positive looks up
}

// Direction returns the unit view vector.
func (l Look) Direction() mgl64.Vec3 {
	cp := math.Cos(l.Pitch)
	return mgl64.Vec3{
		-cp * math.Sin(l.Yaw),
		math.Sin(l.Pitch),
		-cp * math.Cos(l.Yaw),
	}
}

// Ray returns the ray cast from eye along the view direction.
func (l Look) Ray(eye mgl64.Vec3) Ray {
	return Ray{Origin: eye, Direction: l.Direction()}
}

// Turn adds to yaw and pitch, clamping pitch to ±MaxPitch.
func (l *Look) Turn(dYaw, dPitch float64) {
	l.Yaw = math.Mod(l.Yaw+dYaw, 2*math.Pi)
	l.Pitch = mgl64.Clamp(l.Pitch+dPitch, -MaxPitch, MaxPitch)
}

// LookAt returns the view that points from eye to target.
func LookAt(eye, target mgl64.Vec3) Look {
	d := target.Sub(eye)
	horiz := math.Hypot(d[0], d[2])
	return Look{
		Yaw:   math.Atan2(-d[0], -d[2]),
		Pitch: mgl64.Clamp(math.Atan2(d[1], horiz), -MaxPitch, MaxPitch),
	}
}
