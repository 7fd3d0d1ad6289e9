package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linePayload = `{
  "version": 0.6,
  "elements": [
    {"type": "relation", "id": 2147483648001,
     "tags": {"ref": "U1", "colour": "#7DAD4C", "to": "Warschauer Straße", "route": "subway"},
     "members": [
       {"type": "node", "ref": 10, "role": "stop"},
       {"type": "way", "ref": 99, "role": ""},
       {"type": "node", "ref": 11, "role": "stop"}
     ]},
    {"type": "relation", "id": 2,
     "tags": {"colour": "#00FF00", "to": "Nowhere"},
     "members": [{"type": "node", "ref": 10}]},
    {"type": "relation", "id": "3",
     "tags": {"ref": "U3", "to": "Krumme Lanke"},
     "members": [{"type": "node", "ref": "12"}, {"type": "node", "ref": 13}]},
    {"type": "relation", "id": 4,
     "tags": {"ref": "U4", "to": "Nollendorfplatz"},
     "members": [{"type": "way", "ref": 1}]}
  ]
}`

const stationPayload = `{
  "elements": [
    {"type": "node", "id": 10, "lat": 52.5027, "lon": 13.327, "tags": {"name": "Uhlandstraße"}},
    {"type": "node", "id": 11, "lat": 52.505, "lon": 13.449, "tags": {}},
    {"type": "node", "id": 12, "lon": 13.2, "tags": {"name": "No Latitude"}},
    {"type": "node", "id": 13, "lat": "52.44", "lon": "13.23", "tags": {"name": "Krumme Lanke"}},
    {"type": "node", "id": 14, "lat": 95.0, "lon": 13.2, "tags": {"name": "Off The Globe"}},
    "garbage"
  ]
}`

func TestParseLineElements(t *testing.T) {
	records, skipped, err := ParseLineElements([]byte(linePayload))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, LineRecord{
		ID:         "2147483648001",
		Ref:        "U1",
		Colour:     "#7DAD4C",
		To:         "Warschauer Straße",
		StationIDs: []string{"10", "11"},
	}, records[0])

	assert.Equal(t, "3", records[1].ID)
	assert.Equal(t, DefaultLineColor, records[1].Colour)
	assert.Equal(t, []string{"12", "13"}, records[1].StationIDs)
}

func TestParseStationElements(t *testing.T) {
	records, skipped, err := ParseStationElements([]byte(stationPayload))
	require.NoError(t, err)

	assert.Equal(t, 4, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, StationRecord{ID: "10", Name: "Uhlandstraße", Lat: 52.5027, Lon: 13.327}, records[0])
	assert.Equal(t, StationRecord{ID: "13", Name: "Krumme Lanke", Lat: 52.44, Lon: 13.23}, records[1])
}

func TestParseElements_MalformedEnvelope(t *testing.T) {
	_, _, err := ParseLineElements([]byte(`<html>rate limited</html>`))
	assert.Error(t, err)

	_, _, err = ParseStationElements([]byte(`{"elements": 5}`))
	assert.Error(t, err)
}
