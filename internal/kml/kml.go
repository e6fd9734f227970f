// Package kml decodes and encodes KML placemark documents. A placemark
// holds one LineString whose coordinates element is a whitespace-separated
// list of "longitude,latitude,altitude" triples. The format carries no
// per-point time and no per-track description.
package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Namespace is the KML 2.2 default namespace, written on encode.
const Namespace = "http://www.opengis.net/kml/2.2"

// KML is the document root.
type KML struct {
	XMLName  xml.Name `xml:"kml"`
	XMLNS    string   `xml:"xmlns,attr,omitempty"`
	Document Document `xml:"Document"`
}

// Document groups the placemarks of a file.
type Document struct {
	Name       string      `xml:"name,omitempty"`
	Placemarks []Placemark `xml:"Placemark"`
}

// Placemark is one named line geometry.
type Placemark struct {
	Name       string      `xml:"name,omitempty"`
	LineString *LineString `xml:"LineString"`
}

// LineString holds the raw coordinates text of a placemark.
type LineString struct {
	Coordinates string `xml:"coordinates"`
}

// Coordinate is one parsed lon/lat/alt triple.
type Coordinate struct {
	Longitude float64
	Latitude  float64
	Altitude  float64
}

// Parse reads a KML document from r.
func Parse(r io.Reader) (*KML, error) {
	out := &KML{}
	if err := xml.NewDecoder(r).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode kml document: %w", err)
	}
	return out, nil
}

// Write marshals the document to w, prefixed with the XML header.
func (k *KML) Write(w io.Writer) error {
	if k.XMLNS == "" {
		k.XMLNS = Namespace
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write kml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(k); err != nil {
		return fmt.Errorf("failed to encode kml document: %w", err)
	}
	return enc.Close()
}

// ParseCoordinates splits a coordinates element into triples. Each entry
// must be "lon,lat,alt"; a malformed entry fails the whole element so the
// caller can reject the file.
func ParseCoordinates(raw string) ([]Coordinate, error) {
	fields := strings.Fields(raw)
	coords := make([]Coordinate, 0, len(fields))
	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed coordinate %q: want lon,lat,alt", field)
		}
		var vals [3]float64
		for i, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed coordinate %q: %w", field, err)
			}
			vals[i] = v
		}
		coords = append(coords, Coordinate{Longitude: vals[0], Latitude: vals[1], Altitude: vals[2]})
	}
	return coords, nil
}

// FormatCoordinates renders triples back into coordinates element text,
// one triple per entry separated by single spaces.
func FormatCoordinates(coords []Coordinate) string {
	entries := make([]string, len(coords))
	for i, c := range coords {
		entries[i] = strconv.FormatFloat(c.Longitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," +
			strconv.FormatFloat(c.Altitude, 'f', -1, 64)
	}
	return strings.Join(entries, " ")
}
