// Package deeplink parses rvshowroom:// URLs and turns them into showroom
// loads.
//
// Two link forms are accepted:
//
//	rvshowroom://open?projectId=<id>&action=open_showroom
//	rvshowroom://open?showroomData=<url-encoded-json>&action=open_showroom
//
// When both parameters are present the embedded payload wins and no request
// is made.
//
// A dispatch produces two separate signals. The error returned by Dispatch
// (or passed to the HandleDeepLink callback) only says whether the link was
// accepted: a fetch was started or the embedded payload was mapped. Whether
// the showroom actually loaded is reported by the OnShowroomLoaded event,
// which fires exactly once for every accepted dispatch. Callers must not
// treat an accepted dispatch as a loaded showroom.
//
// Each dispatch gets its own id and Pending record, so overlapping
// dispatches do not interfere. Subscribers are called in registration order
// on the goroutine that completed the load: the caller's goroutine for
// embedded payloads, the client's goroutine for fetches.
package deeplink
