package deeplink

import (
	"net/url"
	"strings"
)

const (
	// Scheme is the custom URL scheme handled by this package.
	Scheme = "rvshowroom://"
	// Prefix is the literal, case-sensitive start of every accepted link.
	Prefix = Scheme + "open"
	// ActionOpenShowroom is the only recognized action.
	ActionOpenShowroom = "open_showroom"
)

const (
	paramProjectID    = "projectId"
	paramShowroomData = "showroomData"
	paramAction       = "action"
)

// Link is a parsed deep link. Params hold the raw, still percent-encoded
// values; the accessors decode them.
type Link struct {
	Raw    string
	Params map[string]string
}

// Parse validates the prefix and splits the query string into parameters.
// Later duplicate keys overwrite earlier ones and pairs without "=" are
// dropped.
func Parse(raw string) (Link, error) {
	if !strings.HasPrefix(raw, Prefix) {
		return Link{}, ErrInvalidFormat
	}
	_, query, found := strings.Cut(raw, "?")
	if !found || query == "" {
		return Link{}, ErrNoParameters
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		params[key] = value
	}
	return Link{Raw: raw, Params: params}, nil
}

// ProjectID returns the decoded projectId, or the raw value when it is not
// valid percent-encoding.
func (l Link) ProjectID() string {
	raw := l.Params[paramProjectID]
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Action returns the decoded action parameter.
func (l Link) Action() string {
	raw := l.Params[paramAction]
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// RawShowroomData returns the showroomData parameter as it appeared in the URL.
func (l Link) RawShowroomData() string {
	return l.Params[paramShowroomData]
}

// ShowroomData returns the decoded showroomData payload.
func (l Link) ShowroomData() (string, error) {
	decoded, err := url.QueryUnescape(l.RawShowroomData())
	if err != nil {
		return "", ErrPayloadDecode
	}
	return decoded, nil
}

// ExtractFromArgs returns the first argument that carries a deep link.
// Surrounding quotes left by the OS handler are trimmed.
func ExtractFromArgs(args []string) (string, bool) {
	for _, arg := range args {
		idx := strings.Index(arg, Scheme)
		if idx < 0 {
			continue
		}
		link := strings.Trim(arg[idx:], "\"' ")
		if link != "" {
			return link, true
		}
	}
	return "", false
}
