// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// PassOptions tunes visibility prediction.
type PassOptions struct {
	// ElevationCutoff in degrees; samples below it are not visible.
	ElevationCutoff float64

	// SampleStep between evaluated instants.
	SampleStep time.Duration

	// Days of horizon to evaluate, starting at Start.
	Days int

	// Start of the window. Zero means time.Now.
	Start time.Time
}

// PredictPasses samples the satellite's look angles from the observer
// location and returns every sample above the elevation cutoff. This
// is a coarse sampling pass, not a rise/set solver: the step width
// bounds the resolution.
func PredictPasses(el Element, obsLat, obsLon float64, opts PassOptions) ([]models.PassWindow, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	start = start.UTC()

	step := opts.SampleStep
	if step <= 0 {
		step = 2 * time.Hour
	}
	days := opts.Days
	if days <= 0 {
		days = 7
	}

	sat := satellite.TLEToSat(el.Line1, el.Line2, satellite.GravityWGS84)
	observer := satellite.LatLong{
		Latitude:  obsLat * satellite.DEG2RAD,
		Longitude: obsLon * satellite.DEG2RAD,
	}

	samples := int(time.Duration(days) * 24 * time.Hour / step)
	var windows []models.PassWindow

	for i := 0; i < samples; i++ {
		t := start.Add(time.Duration(i) * step)

		pos, _ := satellite.Propagate(sat,
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
		jday := satellite.JDay(
			t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

		angles := satellite.ECIToLookAngles(pos, observer, 0, jday)

		elevation := angles.El * satellite.RAD2DEG
		if elevation <= opts.ElevationCutoff {
			continue
		}

		windows = append(windows, models.PassWindow{
			Time:     t,
			Altitude: elevation,
			Azimuth:  angles.Az * satellite.RAD2DEG,
			Distance: angles.Rg,
		})
	}
	return windows, nil
}
