package httptransport

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMarshaler(t *testing.T) {
	v := struct {
		Color string `json:"color"`
	}{Color: "red"}

	m := &JSONMarshaler{}
	data, ct, err := m.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"color":"red"}`, string(data))
	assert.Equal(t, contentTypeJSON, ct)

	t.Run("indent", func(t *testing.T) {
		m := &JSONMarshaler{Indent: true}
		data, _, err := m.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"color\": \"red\"\n}", string(data))
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := m.Marshal(func() {})
		require.Error(t, err)
	})
}

func TestFormMarshaler(t *testing.T) {
	m := &FormMarshaler{}

	cases := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"values", url.Values{"color": {"red"}}, "color=red"},
		{"stringMap", map[string]string{"color": "red"}, "color=red"},
		{"sliceMap", map[string][]string{"color": {"red", "blue"}}, "color=red&color=blue"},
		{"struct", struct {
			Color string `url:"color"`
		}{Color: "red"}, "color=red"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, ct, err := m.Marshal(c.value)
			require.NoError(t, err)
			assert.Equal(t, c.expected, string(data))
			assert.Equal(t, contentTypeForm, ct)
		})
	}

	t.Run("error", func(t *testing.T) {
		_, _, err := m.Marshal(5)
		require.Error(t, err)
	})
}

func TestMarshalFunc(t *testing.T) {
	var called bool
	f := MarshalFunc(func(v interface{}) ([]byte, string, error) {
		called = true
		return []byte("x"), "text/plain", nil
	})
	data, ct, err := f.Marshal(nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, "text/plain", ct)
}
