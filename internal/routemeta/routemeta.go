// Package routemeta extracts per-track route statistics from the free-text
// description block written by the recording device. Descriptions are
// externally authored, so a missing field is a normal outcome, never an
// error: a field appears in the result only when its pattern matched.
package routemeta

import (
	"regexp"
	"strconv"

	"github.com/tomaszbielNCI/kml-procesor/internal/models"
)

var (
	reDate     = regexp.MustCompile(`Date:\s*(\d{2}/\d{2}/\d{4})`)
	reDistance = regexp.MustCompile(`Distance:\s*([\d.]+)\s*km`)
	reTime     = regexp.MustCompile(`Time:\s*([\d:]+)`)
	reMinAlt   = regexp.MustCompile(`Minimum Altitude:\s*(-?\d+\.?\d*)\s*meters`)
	reMaxAlt   = regexp.MustCompile(`Maximum Altitude:\s*(-?\d+\.?\d*)\s*meters`)
	reCalories = regexp.MustCompile(`Energy Consumption:\s*(\d+)\s*Calories`)

	// Bare DD/MM/YYYY anywhere in a string, used against track names.
	reBareDate = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)
)

// Extract applies the fixed pattern table to a track description and
// returns the matched route statistics. An empty description yields the
// zero value.
func Extract(description string) models.RouteStats {
	var rs models.RouteStats
	if description == "" {
		return rs
	}

	if m := reDate.FindStringSubmatch(description); m != nil {
		rs.RouteDate = &m[1]
	}
	if m := reDistance.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rs.RouteDistanceKM = &v
		}
	}
	if m := reTime.FindStringSubmatch(description); m != nil {
		rs.RouteTime = &m[1]
	}
	if m := reMinAlt.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rs.RouteMinAltitude = &v
		}
	}
	if m := reMaxAlt.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rs.RouteMaxAltitude = &v
		}
	}
	if m := reCalories.FindStringSubmatch(description); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			rs.RouteTotalCalories = &v
		}
	}

	return rs
}

// FindDate returns the first DD/MM/YYYY date embedded in s, if any.
// Track names sometimes carry the recording date when the points do not.
func FindDate(s string) (string, bool) {
	m := reBareDate.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
