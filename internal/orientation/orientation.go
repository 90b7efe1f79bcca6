package orientation

import (
	"math"
)

// Pose is the canonical representation of orientation for the app.
type Pose struct {
	Roll    float64 `json:"roll"`
	Pitch   float64 `json:"pitch"`
	Heading float64 `json:"heading"`
}

// Source is anything that can provide poses over time.
type Source interface {
	Next() (Pose, error)
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Heading is set to 0 (filled in by ComputePose when a magnetometer sample
// is available).
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	rollRad := math.Atan2(ay, az)
	pitchRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Pose{
		Roll:  rollRad * 180.0 / math.Pi,
		Pitch: pitchRad * 180.0 / math.Pi,
	}
}

// ComputePose computes roll and pitch from the accelerometer and a
// tilt-compensated compass heading from the magnetometer. Units cancel, so
// any consistent pair (milli-g and nanotesla included) works. Heading is in
// degrees, 0-360, measured clockwise from magnetic north.
func ComputePose(ax, ay, az, mx, my, mz float64) Pose {
	pose := ComputePoseFromAccel(ax, ay, az)

	rollRad := pose.Roll * math.Pi / 180.0
	pitchRad := pose.Pitch * math.Pi / 180.0

	// Rotate the field vector back into the horizontal plane before taking
	// the heading, otherwise any tilt bleeds into the yaw estimate.
	xh := mx*math.Cos(pitchRad) + mz*math.Sin(pitchRad)
	yh := mx*math.Sin(rollRad)*math.Sin(pitchRad) +
		my*math.Cos(rollRad) -
		mz*math.Sin(rollRad)*math.Cos(pitchRad)

	heading := math.Atan2(-yh, xh) * 180.0 / math.Pi
	if heading < 0 {
		heading += 360.0
	}

	pose.Heading = heading
	return pose
}
