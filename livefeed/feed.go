package livefeed

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// Vehicle is one positioned vehicle from a VehiclePositions feed
type Vehicle struct {
	ID        string             `json:"id"`
	TripID    string             `json:"tripId,omitempty"`
	RouteID   string             `json:"routeId,omitempty"`
	Coord     transit.Coordinate `json:"coord"`
	Bearing   float64            `json:"bearing,omitempty"`
	Timestamp int64              `json:"timestamp,omitempty"`
}

// Parse decodes a FeedMessage and returns every entity that carries a
// position. Entities without one are ignored.
func Parse(b []byte) ([]Vehicle, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(b, &fm); err != nil {
		return nil, fmt.Errorf("decode feed message: %w", err)
	}

	var out []Vehicle
	for _, e := range fm.GetEntity() {
		vp := e.GetVehicle()
		if vp == nil || vp.Position == nil {
			continue
		}
		v := Vehicle{
			ID:      vp.GetVehicle().GetId(),
			TripID:  vp.GetTrip().GetTripId(),
			RouteID: vp.GetTrip().GetRouteId(),
			Coord: transit.Coordinate{
				Lat: float64(vp.GetPosition().GetLatitude()),
				Lon: float64(vp.GetPosition().GetLongitude()),
			},
			Bearing:   float64(vp.GetPosition().GetBearing()),
			Timestamp: int64(vp.GetTimestamp()),
		}
		if v.ID == "" {
			v.ID = e.GetId()
		}
		out = append(out, v)
	}
	return out, nil
}

// Within keeps the vehicles at most radius meters from center
func Within(vehicles []Vehicle, center transit.Coordinate, radius float64) []Vehicle {
	var out []Vehicle
	for _, v := range vehicles {
		if transit.Distance(v.Coord, center) <= radius {
			out = append(out, v)
		}
	}
	return out
}

// Positions returns the coordinates of vehicles in feed order
func Positions(vehicles []Vehicle) []transit.Coordinate {
	out := make([]transit.Coordinate, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.Coord)
	}
	return out
}
