package transit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// DefaultLineColor is used for routes without a colour tag
const DefaultLineColor = "#808080"

// LineRecord is a validated route relation
type LineRecord struct {
	ID         string   `validate:"required"`
	Ref        string   `validate:"required"`
	Colour     string   `validate:"omitempty"`
	To         string   `validate:"required"`
	StationIDs []string `validate:"min=1,dive,required"`
}

// StationRecord is a validated stop node
type StationRecord struct {
	ID   string  `validate:"required"`
	Name string  `validate:"required"`
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
}

var validate = validator.New()

type rawResponse struct {
	Elements []json.RawMessage `json:"elements"`
}

type rawElement struct {
	Type    string         `json:"type"`
	ID      any            `json:"id"`
	Lat     any            `json:"lat"`
	Lon     any            `json:"lon"`
	Tags    map[string]any `json:"tags"`
	Members []rawMember    `json:"members"`
}

type rawMember struct {
	Type string `json:"type"`
	Ref  any    `json:"ref"`
	Role string `json:"role"`
}

// ParseLineElements decodes an Overpass route response. Elements that cannot be
// decoded or fail validation are skipped and counted; only a malformed
// envelope is an error.
func ParseLineElements(data []byte) ([]LineRecord, int, error) {
	elements, err := decodeEnvelope(data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LineRecord, 0, len(elements))
	skipped := 0
	for i, raw := range elements {
		rec, err := lineRecordFrom(raw)
		if err != nil {
			log.Printf("skipping line element %d: %v", i, err)
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// ParseStationElements decodes an Overpass node response, skipping invalid
// elements individually.
func ParseStationElements(data []byte) ([]StationRecord, int, error) {
	elements, err := decodeEnvelope(data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StationRecord, 0, len(elements))
	skipped := 0
	for i, raw := range elements {
		rec, err := stationRecordFrom(raw)
		if err != nil {
			log.Printf("skipping station element %d: %v", i, err)
			skipped++
			continue
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

func decodeEnvelope(data []byte) ([]json.RawMessage, error) {
	var resp rawResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode overpass response: %w", err)
	}
	return resp.Elements, nil
}

func decodeElement(raw json.RawMessage) (rawElement, error) {
	var el rawElement
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&el); err != nil {
		return el, err
	}
	return el, nil
}

func lineRecordFrom(raw json.RawMessage) (LineRecord, error) {
	el, err := decodeElement(raw)
	if err != nil {
		return LineRecord{}, err
	}
	rec := LineRecord{
		ID:     toStringFallback(el.ID, ""),
		Ref:    toStringFallback(el.Tags["ref"], ""),
		Colour: toStringFallback(el.Tags["colour"], DefaultLineColor),
		To:     toStringFallback(el.Tags["to"], ""),
	}
	for _, m := range el.Members {
		if m.Type != "node" {
			continue
		}
		if ref := toStringFallback(m.Ref, ""); ref != "" {
			rec.StationIDs = append(rec.StationIDs, ref)
		}
	}
	if err := validate.Struct(rec); err != nil {
		return LineRecord{}, fmt.Errorf("line %q: %w", rec.ID, err)
	}
	return rec, nil
}

func stationRecordFrom(raw json.RawMessage) (StationRecord, error) {
	el, err := decodeElement(raw)
	if err != nil {
		return StationRecord{}, err
	}
	lat, err := toFloat(el.Lat)
	if err != nil {
		return StationRecord{}, fmt.Errorf("station %v lat: %w", el.ID, err)
	}
	lon, err := toFloat(el.Lon)
	if err != nil {
		return StationRecord{}, fmt.Errorf("station %v lon: %w", el.ID, err)
	}
	rec := StationRecord{
		ID:   toStringFallback(el.ID, ""),
		Name: toStringFallback(el.Tags["name"], ""),
		Lat:  lat,
		Lon:  lon,
	}
	if err := validate.Struct(rec); err != nil {
		return StationRecord{}, fmt.Errorf("station %q: %w", rec.ID, err)
	}
	return rec, nil
}

// Utility converters for loosely typed JSON values

func toStringFallback(v any, fallback string) string {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fallback
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(t, 64)
	case json.Number:
		return t.Float64()
	default:
		return 0, errors.New("not a float")
	}
}
