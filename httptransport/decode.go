package httptransport

import (
	"bytes"
	"encoding/json"

	"github.com/rearmlib/rearm"
	"golang.org/x/net/html"
)

// decode converts the raw response body according to the armed
// response kind.  The first return is the response text, valid only
// for rearm.KindText.  The second is the decoded value; nil signals a
// decode failure, which classification reports as a body-type error.
func decode(kind rearm.Kind, data []byte) (text string, decoded interface{}) {
	switch kind {
	case rearm.KindText:
		s := string(data)
		return s, s
	case rearm.KindArrayBuffer, rearm.KindBlob:
		buf := make([]byte, len(data))
		copy(buf, data)
		return "", buf
	case rearm.KindJSON:
		var v interface{}
		if err := json.Unmarshal(data, &v); err != nil {
			return "", nil
		}
		// a literal JSON null decodes to nil, which is
		// indistinguishable from a failure, and classified as one
		return "", v
	case rearm.KindDocument:
		node, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return "", nil
		}
		return "", node
	default:
		return "", nil
	}
}
