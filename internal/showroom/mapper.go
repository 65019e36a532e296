package showroom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// timestampLayouts are tried in order. The zoneless forms match the
// backend's DateTime serialization and parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseSummaryList decodes a JSON array of showroom summaries. Elements that
// are not objects are skipped.
func ParseSummaryList(data []byte) ([]Summary, error) {
	root, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	items, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON array, got %s", ErrParse, jsonKind(root))
	}
	return MapSummaryList(items), nil
}

// ParseSummary decodes a single showroom summary object.
func ParseSummary(data []byte) (Summary, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Summary{}, err
	}
	return MapSummary(obj), nil
}

// ParseDetails decodes a single showroom details object.
func ParseDetails(data []byte) (Details, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Details{}, err
	}
	return MapDetails(obj), nil
}

// MapSummaryList maps every object element of items and skips the rest.
func MapSummaryList(items []any) []Summary {
	out := make([]Summary, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, MapSummary(obj))
	}
	return out
}

// MapSummary copies the summary fields out of obj. Missing keys and values
// of the wrong type leave the field empty.
func MapSummary(obj map[string]any) Summary {
	s := Summary{
		ID:                    stringField(obj, "id"),
		Name:                  stringField(obj, "name"),
		Slug:                  stringField(obj, "slug"),
		CompanyName:           stringField(obj, "companyName"),
		ShortDescription:      stringField(obj, "shortDescription"),
		Genre:                 stringField(obj, "genre"),
		PublishingTrack:       stringField(obj, "publishingTrack"),
		BuildStatus:           stringField(obj, "buildStatus"),
		GameLogoURL:           stringField(obj, "gameLogoUrl"),
		CoverArtURL:           stringField(obj, "coverArtUrl"),
		ShowroomTier:          stringField(obj, "showroomTier"),
		ShowroomLightingColor: stringField(obj, "showroomLightingColor"),
	}
	s.ShowroomLightingColorLinear = DecodeColor(s.ShowroomLightingColor)
	return s
}

// MapDetails copies the summary and detail fields out of obj using the same
// best-effort rules as MapSummary.
func MapDetails(obj map[string]any) Details {
	d := Details{
		Summary:         MapSummary(obj),
		TrailerURL:      stringField(obj, "trailerUrl"),
		GameURL:         stringField(obj, "gameUrl"),
		LauncherURL:     stringField(obj, "launcherUrl"),
		ScreenshotURLs:  stringsField(obj, "screenshotUrls"),
		TargetPlatforms: stringsField(obj, "targetPlatforms"),
		CreatedAt:       timeField(obj, "createdAt"),
		UpdatedAt:       timeField(obj, "updatedAt"),
		CompanyLogoURL:  stringField(obj, "companyLogoUrl"),
		FullDescription: stringField(obj, "fullDescription"),
		AgeRating:       stringField(obj, "ageRating"),
		RatingBoard:     stringField(obj, "ratingBoard"),
		SupportEmail:    stringField(obj, "supportEmail"),
		IsFeatured:      boolField(obj, "isFeatured"),
		ViewCount:       intField(obj, "viewCount"),
		LikeCount:       intField(obj, "likeCount"),
		PublishedAt:     timeField(obj, "publishedAt"),
	}
	d.ShowroomLightingColorLinear = DecodeColor(d.ShowroomLightingColor)
	return d
}

func decodeObject(data []byte) (map[string]any, error) {
	root, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object, got %s", ErrParse, jsonKind(root))
	}
	return obj, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrParse)
	}
	return root, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func intField(obj map[string]any, key string) int {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

// stringsField converts every element of an array field to its string form.
// Null, object and array elements become empty strings.
func stringsField(obj map[string]any, key string) []string {
	items, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case json.Number:
			out = append(out, v.String())
		case bool:
			out = append(out, strconv.FormatBool(v))
		default:
			out = append(out, "")
		}
	}
	return out
}

func timeField(obj map[string]any, key string) time.Time {
	value := stringField(obj, key)
	if value == "" {
		return time.Time{}
	}
	return parseTime(value)
}

func parseTime(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
