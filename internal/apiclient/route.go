package apiclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bot-template/internal/utils"
)

// Route is a single request target. It is immutable once built.
type Route struct {
	Method string
	URL    string
}

// NewRoute embeds params into rawURL. Params must be strings, bools or
// integers; anything else is rejected.
func NewRoute(method, rawURL string, params map[string]any) (Route, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	values := url.Values{}
	for key, value := range params {
		encoded, err := encodeParam(value)
		if err != nil {
			return Route{}, fmt.Errorf("param %q: %w", key, err)
		}
		values.Set(key, encoded)
	}

	normalized, err := utils.NormalizeURL(rawURL, values)
	if err != nil {
		return Route{}, fmt.Errorf("route %s %s: %w", method, rawURL, err)
	}
	return Route{Method: method, URL: normalized}, nil
}

func encodeParam(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", value)
	}
}

func (r Route) String() string {
	return r.Method + " " + r.URL
}
