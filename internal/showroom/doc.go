// Package showroom provides the typed records and HTTP client for the
// Readyverse showroom API.
//
// # Overview
//
// The backend publishes game listings ("showrooms"). This package fetches
// them, maps the JSON payloads into Summary and Details records and
// classifies failures. It is used by the CLI, the terminal browser and the
// deep-link dispatcher.
//
// # Files
//
//   - types.go: Summary, Details and LinearColor
//   - mapper.go: best-effort JSON to record mapping
//   - color.go: hex lighting color decoding
//   - client.go: HTTP client, synchronous and callback-style operations
//   - errors.go: error values and classification
//
// # API Endpoints
//
//   - GET /api/showroom/games: all published showrooms
//   - GET /api/showroom/games/{id}: one showroom in detail
//   - GET /api/showroom/games/genre/{genre}
//   - GET /api/showroom/games/track/{track}
//   - GET /api/showroom/games/search?query=...
//   - GET /api/showroom/games/featured
//
// Every request sets Accept: application/json and the configured User-Agent.
// The id and filter segments are path-escaped.
//
// # Mapping Rules
//
// Mapping never fails on individual fields. A missing key or a value of the
// wrong type leaves the field at its zero value. Array fields are converted
// element by element to strings, and timestamps that do not parse as
// ISO-8601 stay zero. Only the top-level shape is checked: lists must be a
// JSON array, details a JSON object.
//
// The linear lighting color is always recomputed from the hex string with
// DecodeColor; it is never read from the payload. Missing or malformed hex
// values decode to opaque white.
//
// # Completion Semantics
//
// ListShowrooms and GetShowroomByID take a completion callback that fires
// exactly once. When no base URL is configured the callback fires before the
// method returns and no request is made; otherwise the request runs on its
// own goroutine and the callback fires from there. Concurrent calls are
// independent and complete in no particular order.
//
// The Fetch* methods are the blocking equivalents and honour ctx.
//
// # Errors
//
//	ErrMissingBaseURL  no base URL configured
//	ErrNetwork         transport failure (wraps the cause)
//	*StatusError       response outside 2xx, message embeds the code
//	ErrParse           body is not valid JSON or has the wrong shape
//
// There are no retries. Timeouts come from the underlying http.Client and
// surface as ErrNetwork.
package showroom
