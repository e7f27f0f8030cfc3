package httptransport

import (
	"encoding/json"
	"net/url"

	"github.com/ansel1/merry"
	goquery "github.com/google/go-querystring/query"
)

// The transport marshals struct request bodies with an instance of
// the Marshaler interface.  String, []byte, and io.Reader bodies are
// sent as-is.  If no Marshaler is installed, the transport falls back
// on DefaultMarshaler, which marshals to JSON.

// DefaultMarshaler is used by Transport if no Marshaler is installed.
// nolint:gochecknoglobals
var DefaultMarshaler Marshaler = &JSONMarshaler{}

const (
	contentTypeForm = "application/x-www-form-urlencoded; charset=UTF-8"
	contentTypeJSON = "application/json; charset=UTF-8"
)

// Marshaler marshals request body values into a []byte.
//
// If the content type returned is not empty, it will be used in the
// request's Content-Type header, unless that header was set
// explicitly on the descriptor.
type Marshaler interface {
	Marshal(v interface{}) (data []byte, contentType string, err error)
}

// MarshalFunc adapts a function to the Marshaler interface.
type MarshalFunc func(v interface{}) ([]byte, string, error)

// Marshal implements the Marshaler interface.
func (f MarshalFunc) Marshal(v interface{}) ([]byte, string, error) {
	return f(v)
}

// JSONMarshaler marshals request bodies to JSON.  If Indent is true,
// the generated JSON is indented.
type JSONMarshaler struct {
	Indent bool
}

// Marshal implements Marshaler.
func (m *JSONMarshaler) Marshal(v interface{}) (data []byte, contentType string, err error) {
	if m.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	return data, contentTypeJSON, merry.Wrap(err)
}

// FormMarshaler marshals request bodies into URL-encoded form data.
//
// The value can be a map[string][]string, map[string]string,
// url.Values, or a struct with `url` tags.
type FormMarshaler struct{}

// Marshal implements Marshaler.
func (*FormMarshaler) Marshal(v interface{}) (data []byte, contentType string, err error) {
	switch t := v.(type) {
	case map[string][]string:
		urlV := url.Values(t)
		return []byte(urlV.Encode()), contentTypeForm, nil
	case map[string]string:
		urlV := url.Values{}
		for key, value := range t {
			urlV.Set(key, value)
		}
		return []byte(urlV.Encode()), contentTypeForm, nil
	case url.Values:
		return []byte(t.Encode()), contentTypeForm, nil
	default:
		values, err := goquery.Values(v)
		if err != nil {
			return nil, "", merry.Prepend(err, "invalid form struct")
		}
		return []byte(values.Encode()), contentTypeForm, nil
	}
}
