package httptransport

import (
	"testing"

	"github.com/rearmlib/rearm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestDecode_Text(t *testing.T) {
	text, decoded := decode(rearm.KindText, []byte("hello"))
	assert.Equal(t, "hello", text)
	assert.Equal(t, "hello", decoded)
}

func TestDecode_Bytes(t *testing.T) {
	data := []byte{1, 2, 3}
	for _, kind := range []rearm.Kind{rearm.KindArrayBuffer, rearm.KindBlob} {
		t.Run(kind.String(), func(t *testing.T) {
			text, decoded := decode(kind, data)
			assert.Empty(t, text)
			require.Equal(t, []byte{1, 2, 3}, decoded)

			// the decoded value must be a copy, not an alias
			decoded.([]byte)[0] = 9
			assert.Equal(t, byte(1), data[0])
		})
	}
}

func TestDecode_JSON(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected interface{}
	}{
		{"object", `{"a":1}`, map[string]interface{}{"a": float64(1)}},
		{"array", `[1,2]`, []interface{}{float64(1), float64(2)}},
		{"scalar", `"hi"`, "hi"},
		// decode failures and JSON null both yield nil, which
		// classification reports as a body-type error
		{"invalid", `not json`, nil},
		{"empty", ``, nil},
		{"null", `null`, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			text, decoded := decode(rearm.KindJSON, []byte(c.body))
			assert.Empty(t, text)
			assert.Equal(t, c.expected, decoded)
		})
	}
}

func TestDecode_Document(t *testing.T) {
	text, decoded := decode(rearm.KindDocument, []byte(`<html><body><p>hi</p></body></html>`))
	assert.Empty(t, text)
	node, ok := decoded.(*html.Node)
	require.True(t, ok)
	require.NotNil(t, node)
}
