package rearm

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failOption() OptionFunc {
	return func(_ *Descriptor) error {
		return errors.New("boom")
	}
}

func TestNew(t *testing.T) {
	d, err := New(&MockTransport{}, URL("http://test/green"), Method("POST"))
	require.NoError(t, err)
	require.NotNil(t, d)
	// options were applied
	require.Equal(t, "http://test/green", d.URL())
	require.Equal(t, "POST", d.Method())
	require.NotNil(t, d.Controller())

	t.Run("error", func(t *testing.T) {
		_, err := New(&MockTransport{}, failOption())
		require.EqualError(t, merry.Unwrap(err), "boom")
	})
}

func TestMustNew(t *testing.T) {
	d := MustNew(&MockTransport{}, URL("http://test/green"))
	require.NotNil(t, d)
	require.Equal(t, "http://test/green", d.URL())

	require.Panics(t, func() {
		MustNew(&MockTransport{}, failOption())
	})
}

func TestDescriptor_Apply(t *testing.T) {
	d := MustNew(&MockTransport{}, Method("red"))
	err := d.Apply(Method("green"))
	require.NoError(t, err)
	// applies in place
	require.Equal(t, "green", d.Method())

	t.Run("errors", func(t *testing.T) {
		err := d.Apply(URL("cache_object:foo/bar"))
		require.Error(t, err)
		require.Empty(t, d.URL())
	})
}

func TestDescriptor_MustApply(t *testing.T) {
	d := MustNew(&MockTransport{}, Method("red"))

	d.MustApply(Method("green"))
	require.Equal(t, "green", d.Method())

	require.Panics(t, func() {
		d.MustApply(URL("cache_object:foo/bar"))
	})
}

func TestDescriptor_With(t *testing.T) {
	d := MustNew(&MockTransport{}, Method("red"))
	d2, err := d.With(&MockTransport{}, Method("green"))
	require.NoError(t, err)
	// should clone first, then apply
	require.Equal(t, "green", d2.Method())
	require.Equal(t, "red", d.Method())

	t.Run("errors", func(t *testing.T) {
		d2, err := d.With(&MockTransport{}, failOption())
		require.Error(t, err)
		require.Nil(t, d2)
	})
}

func TestMethodOptions(t *testing.T) {
	cases := []struct {
		opt      Option
		expected string
	}{
		{Method("OPTIONS"), "OPTIONS"},
		{Get(), "GET"},
		{Head(), "HEAD"},
		{Post(), "POST"},
		{Put(), "PUT"},
		{Patch(), "PATCH"},
		{Delete(), "DELETE"},
	}
	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			d := MustNew(&MockTransport{}, c.opt)
			require.Equal(t, c.expected, d.Method())
		})
	}
}

func TestURLOption(t *testing.T) {
	d := MustNew(&MockTransport{}, URL("http://test/red"))
	require.Equal(t, "http://test/red", d.URL())

	t.Run("errors", func(t *testing.T) {
		_, err := New(&MockTransport{}, URL("cache_object:foo/bar"))
		require.Error(t, err)
	})
}

func TestRelativeURL(t *testing.T) {
	cases := []struct {
		base     string
		paths    []string
		expected string
	}{
		{"http://test.com", []string{"red"}, "http://test.com/red"},
		{"http://test.com/", []string{"red", "blue"}, "http://test.com/blue"},
		{"http://test.com/red/", []string{"blue"}, "http://test.com/red/blue"},
	}
	for _, c := range cases {
		t.Run("", func(t *testing.T) {
			d := MustNew(&MockTransport{}, URL(c.base), RelativeURL(c.paths...))
			require.Equal(t, c.expected, d.URL())
		})
	}
}

func TestQueryParams(t *testing.T) {
	type params struct {
		Color string `url:"color"`
	}

	cases := []struct {
		args     []interface{}
		expected string
	}{
		{[]interface{}{nil}, "http://test/red"},
		{[]interface{}{map[string][]string{"a": {"1"}}}, "http://test/red?a=1"},
		{[]interface{}{url.Values{"b": {"2"}}}, "http://test/red?b=2"},
		{[]interface{}{params{Color: "blue"}}, "http://test/red?color=blue"},
		{[]interface{}{url.Values{"a": {"1"}}, url.Values{"b": {"2"}}}, "http://test/red?a=1&b=2"},
	}
	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			d := MustNew(&MockTransport{}, URL("http://test/red"), QueryParams(c.args...))
			require.Equal(t, c.expected, d.URL())
		})
	}

	t.Run("mergesWithExisting", func(t *testing.T) {
		d := MustNew(&MockTransport{}, URL("http://test/red?a=1"), QueryParams(url.Values{"b": {"2"}}))
		require.Equal(t, "http://test/red?a=1&b=2", d.URL())
	})

	t.Run("requiresURL", func(t *testing.T) {
		_, err := New(&MockTransport{}, QueryParams(url.Values{"a": {"1"}}))
		require.Error(t, err)
	})
}

func TestHeaderOptions(t *testing.T) {
	d := MustNew(&MockTransport{},
		Header("X-Color", "red"),
		Accept(ContentTypeJSON),
		ContentType(ContentTypeForm),
	)
	assert.Equal(t, "red", d.Header("X-Color"))
	assert.Equal(t, ContentTypeJSON, d.Header(HeaderAccept))
	assert.Equal(t, ContentTypeForm, d.Header(HeaderContentType))

	d.MustApply(DeleteHeader("X-Color"))
	assert.Empty(t, d.Header("X-Color"))

	t.Run("emptyName", func(t *testing.T) {
		_, err := New(&MockTransport{}, Header("", "red"))
		require.Error(t, err)
	})
}

func TestBasicAuthOption(t *testing.T) {
	mt := &MockTransport{}
	d := MustNew(mt, URL("http://test/red"), BasicAuth("bob", "hunter2"))
	require.NoError(t, d.Controller().Dispatch(nil))
	require.Equal(t, "bob", mt.Username)
	require.Equal(t, "hunter2", mt.Password)
}

func TestTimeoutOption(t *testing.T) {
	d := MustNew(&MockTransport{}, Timeout(time.Minute))
	require.Equal(t, time.Minute, d.Timeout())

	d.MustApply(Timeout(-1))
	require.Equal(t, time.Duration(0), d.Timeout())
}

func TestBodyOption(t *testing.T) {
	d := MustNew(&MockTransport{}, Body("hi"))
	require.Equal(t, "hi", d.Body())
}

func TestResponseKindOption(t *testing.T) {
	d := MustNew(&MockTransport{}, ResponseKind(KindDocument))
	require.Equal(t, KindDocument, d.Kind())

	t.Run("invalid", func(t *testing.T) {
		_, err := New(&MockTransport{}, ResponseKind(Kind(9)))
		require.Error(t, err)
	})
}

func TestCookieOption(t *testing.T) {
	d := MustNew(&MockTransport{}, Cookie("a", "1"), Cookie("b", "2"))
	require.Equal(t, "a=1; b=2", d.Header(HeaderCookie))

	t.Run("empty", func(t *testing.T) {
		_, err := New(&MockTransport{}, Cookie("", "1"))
		require.Error(t, err)
	})
}

func TestJSONOption(t *testing.T) {
	d := MustNew(&MockTransport{}, JSON())
	assert.Equal(t, ContentTypeJSON, d.Header(HeaderContentType))
	assert.Equal(t, ContentTypeJSON, d.Header(HeaderAccept))
	assert.Equal(t, KindJSON, d.Kind())
}
