package envmap

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_PreservesOrderAndNumbers(t *testing.T) {
	v, err := ParseJSON(strings.NewReader(`{"z": 1.50, "a": [true, null, "s"], "m": {"k": -3e2}}`))
	require.NoError(t, err)

	require.Equal(t, KindMapping, v.Kind)
	require.Len(t, v.Entries, 3)
	assert.Equal(t, "z", v.Entries[0].Key)
	assert.Equal(t, "1.50", v.Entries[0].Value.String())
	assert.Equal(t, "a", v.Entries[1].Key)
	assert.Equal(t, Sequence(Scalar("true"), Null(), Scalar("s")), v.Entries[1].Value)
	assert.Equal(t, Mapping(Entry{Key: "k", Value: Scalar("-3e2")}), v.Entries[2].Value)
}

func TestParseJSON_Errors(t *testing.T) {
	for _, doc := range []string{``, `{`, `{"a": }`, `[1, 2`, `{"a": 1} {"b": 2}`, `not json`} {
		_, err := ParseJSONBytes([]byte(doc))
		assert.Error(t, err, "doc %q", doc)
	}
}

func TestParseJSON_Scalars(t *testing.T) {
	v, err := ParseJSONBytes([]byte(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, Scalar("hello"), v)

	v, err = ParseJSONBytes([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, Null(), v)
}

func TestFromForm(t *testing.T) {
	v := FromForm(url.Values{
		"zeta":  {"z"},
		"alpha": {"first", "last"},
		"empty": {},
	})

	assert.Equal(t, Mapping(
		Entry{Key: "alpha", Value: Scalar("last")},
		Entry{Key: "empty", Value: Null()},
		Entry{Key: "zeta", Value: Scalar("z")},
	), v)
}

func TestValue_Complex(t *testing.T) {
	assert.True(t, Sequence().Complex())
	assert.True(t, Mapping().Complex())
	assert.False(t, Scalar("x").Complex())
	assert.False(t, Null().Complex())
	assert.Equal(t, "", Null().String())
}
