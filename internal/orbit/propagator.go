// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// PositionAt propagates the element set to t and returns the geodetic
// fix. Decayed or numerically unstable elements yield an error rather
// than NaN coordinates.
func PositionAt(el Element, t time.Time) (models.PositionFix, error) {
	t = t.UTC()
	sat := satellite.TLEToSat(el.Line1, el.Line2, satellite.GravityWGS84)

	pos, vel := satellite.Propagate(sat,
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	gmst := satellite.GSTimeFromDate(
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	alt, _, ll := satellite.ECIToLLA(pos, gmst)

	lat := ll.Latitude * satellite.RAD2DEG
	lon := normalizeLongitude(ll.Longitude * satellite.RAD2DEG)
	speed := math.Sqrt(vel.X*vel.X + vel.Y*vel.Y + vel.Z*vel.Z)

	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsNaN(alt) || math.IsNaN(speed) {
		return models.PositionFix{}, fmt.Errorf("propagation unstable for %s (%s)", el.Name, el.ID())
	}

	return models.PositionFix{
		Latitude:  lat,
		Longitude: lon,
		Altitude:  alt,
		Velocity:  speed,
		Timestamp: t,
	}, nil
}

// normalizeLongitude wraps a degree value into [-180, 180).
func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	switch {
	case lon >= 180:
		lon -= 360
	case lon < -180:
		lon += 360
	}
	return lon
}
