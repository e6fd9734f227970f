package kml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Evening Walk</name>
      <LineString>
        <coordinates>
          18.2,53.1,100.5 18.3,53.2,101
        </coordinates>
      </LineString>
    </Placemark>
  </Document>
</kml>`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Document.Placemarks, 1)

	pm := doc.Document.Placemarks[0]
	assert.Equal(t, "Evening Walk", pm.Name)
	require.NotNil(t, pm.LineString)

	coords, err := ParseCoordinates(pm.LineString.Coordinates)
	require.NoError(t, err)
	require.Len(t, coords, 2)
	assert.Equal(t, Coordinate{Longitude: 18.2, Latitude: 53.1, Altitude: 100.5}, coords[0])
	assert.Equal(t, Coordinate{Longitude: 18.3, Latitude: 53.2, Altitude: 101}, coords[1])
}

func TestParseCoordinatesMalformed(t *testing.T) {
	for _, raw := range []string{"18.2,53.1", "18.2,53.1,abc", "18.2;53.1;100"} {
		_, err := ParseCoordinates(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseCoordinatesEmpty(t *testing.T) {
	coords, err := ParseCoordinates("  \n ")
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestWriteRoundTrip(t *testing.T) {
	in := &KML{Document: Document{Placemarks: []Placemark{{
		Name: "Walk",
		LineString: &LineString{Coordinates: FormatCoordinates([]Coordinate{
			{Longitude: 18.2, Latitude: 53.1, Altitude: 100.5},
			{Longitude: 18.3, Latitude: 53.2, Altitude: 101},
		})},
	}}}}

	var buf bytes.Buffer
	require.NoError(t, in.Write(&buf))
	assert.Contains(t, buf.String(), Namespace)

	out, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, out.Document.Placemarks, 1)
	coords, err := ParseCoordinates(out.Document.Placemarks[0].LineString.Coordinates)
	require.NoError(t, err)
	require.Len(t, coords, 2)
	assert.Equal(t, 53.1, coords[0].Latitude)
	assert.Equal(t, 18.2, coords[0].Longitude)
	assert.Equal(t, 100.5, coords[0].Altitude)
}
