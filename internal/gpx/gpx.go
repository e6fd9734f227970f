// Package gpx decodes and encodes GPX track documents: tracks containing
// segments containing points, with latitude/longitude as attributes and
// elevation/time as child elements. Points may carry a vendor
// TrackPointExtension block with clock/seconds values.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Header written before the marshalled document on encode.
const header = xml.Header

// GPX is the document root.
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr,omitempty"`
	Creator string   `xml:"creator,attr,omitempty"`
	Tracks  []Track  `xml:"trk"`
}

// Track is one named recording session.
type Track struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"desc,omitempty"`
	Segments    []Segment `xml:"trkseg"`
}

// Segment is an ordered run of points within a track.
type Segment struct {
	Points []Point `xml:"trkpt"`
}

// Point is a single track point. Elevation and Time are optional in the
// source; Time stays textual so a document round-trips byte-comparably.
type Point struct {
	Latitude   float64     `xml:"lat,attr"`
	Longitude  float64     `xml:"lon,attr"`
	Elevation  *float64    `xml:"ele,omitempty"`
	Time       string      `xml:"time,omitempty"`
	Extensions *Extensions `xml:"extensions"`
}

// Extensions wraps the vendor extension block attached to a point.
type Extensions struct {
	TrackPointExtension *TrackPointExtension `xml:"TrackPointExtension"`
}

// TrackPointExtension carries the vendor clock string and its auxiliary
// seconds offset.
type TrackPointExtension struct {
	Clock   string `xml:"clock,omitempty"`
	Seconds string `xml:"seconds,omitempty"`
}

// Parse reads a GPX document from r.
func Parse(r io.Reader) (*GPX, error) {
	out := &GPX{}
	if err := xml.NewDecoder(r).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode gpx document: %w", err)
	}
	return out, nil
}

// Write marshals the document to w, prefixed with the XML header.
func (g *GPX) Write(w io.Writer) error {
	if g.Version == "" {
		g.Version = "1.1"
	}
	if g.Creator == "" {
		g.Creator = "kml-procesor"
	}
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("failed to write gpx header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("failed to encode gpx document: %w", err)
	}
	return enc.Close()
}

// Clock returns the vendor clock/seconds pair for the point, empty when no
// extension block is present.
func (p *Point) Clock() (clock, seconds string) {
	if p.Extensions == nil || p.Extensions.TrackPointExtension == nil {
		return "", ""
	}
	ext := p.Extensions.TrackPointExtension
	return ext.Clock, ext.Seconds
}
