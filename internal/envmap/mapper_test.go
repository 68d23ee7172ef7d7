package envmap

import (
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeyPattern = regexp.MustCompile(`^HOOKHAND(_[A-Z0-9_]*)?$`)

func mustParse(t *testing.T, doc string) Value {
	t.Helper()
	v, err := ParseJSON(strings.NewReader(doc))
	require.NoError(t, err)
	return v
}

func TestMapToEnvironment_FlatMapping(t *testing.T) {
	params := mustParse(t, `{"testing": "a", "count": 3, "ok": true, "none": null}`)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, Environment{
		"HOOKHAND_TESTING": "a",
		"HOOKHAND_COUNT":   "3",
		"HOOKHAND_OK":      "true",
		"HOOKHAND_NONE":    "",
	}, env)
}

func TestMapToEnvironment_NestedMapping(t *testing.T) {
	params := mustParse(t, `{"repository": {"name": "hookhand", "owner": {"login": "mike"}}, "ref": "refs/heads/main"}`)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, "hookhand", env["HOOKHAND_REPOSITORY_NAME"])
	assert.Equal(t, "mike", env["HOOKHAND_REPOSITORY_OWNER_LOGIN"])
	assert.Equal(t, "refs/heads/main", env["HOOKHAND_REF"])
	assert.Len(t, env, 3)
}

func TestMapToEnvironment_SequenceQuirk(t *testing.T) {
	// more_test: [[[1, 2], 3], 4]
	//   [[1, 2], 3] -> key [1, 2] is complex: walk it with the same prefix, drop 3
	//   [1, 2] elements 1 and 2 become keys with empty values
	//   4 -> key with empty value
	params := mustParse(t, `{"testing_again": "b", "more_test": [[[1, 2], 3], 4]}`)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, Environment{
		"HOOKHAND_TESTING_AGAIN": "b",
		"HOOKHAND_MORE_TEST_1":   "",
		"HOOKHAND_MORE_TEST_2":   "",
		"HOOKHAND_MORE_TEST_4":   "",
	}, env)
}

func TestMapToEnvironment_TopLevelSequence(t *testing.T) {
	params := mustParse(t, `[["branch", "main"], {"user": "mike"}, "flag", ["nested", {"a": 1}]]`)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, Environment{
		"HOOKHAND_BRANCH":   "main",
		"HOOKHAND_USER":     "mike",
		"HOOKHAND_FLAG":     "",
		"HOOKHAND_NESTED_A": "1",
	}, env)
}

func TestMapToEnvironment_ScalarRoot(t *testing.T) {
	assert.Empty(t, MapToEnvironment(Scalar("x"), DefaultPrefix))
	assert.Empty(t, MapToEnvironment(Null(), DefaultPrefix))
}

func TestMapToEnvironment_Sanitizes(t *testing.T) {
	params := mustParse(t, `{"pull-request": {"head.sha": "abc"}, "a b=c": "1", "$(rm -rf /)": "x", "ünï": "y"}`)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, "abc", env["HOOKHAND_PULL_REQUEST_HEAD_SHA"])
	assert.Equal(t, "1", env["HOOKHAND_A_B_C"])
	for k := range env {
		assert.Regexp(t, envKeyPattern, k)
	}
}

func TestMapToEnvironment_CollisionLastWins(t *testing.T) {
	params := Mapping(
		Entry{Key: "a-b", Value: Scalar("first")},
		Entry{Key: "a_b", Value: Scalar("second")},
	)

	env := MapToEnvironment(params, DefaultPrefix)

	assert.Equal(t, Environment{"HOOKHAND_A_B": "second"}, env)
}

func TestMapToEnvironment_KeysAlwaysSafe(t *testing.T) {
	docs := []string{
		`{"x": {"y": [1, [2, 3], {"z": "w"}]}}`,
		`[[[["deep"]]], [{"k": {"j": null}}], []]`,
		`{"": "empty", "ok": {"": {"": 1}}}`,
		`{"UPPER": "a", "lower": "b", "MiXeD-9": "c"}`,
	}
	for _, doc := range docs {
		env := Build(mustParse(t, doc), "push")
		for k := range env {
			assert.Regexp(t, envKeyPattern, k, "doc %s", doc)
		}
	}
}

func TestMapToEnvironment_CustomPrefix(t *testing.T) {
	env := MapToEnvironment(mustParse(t, `{"a": 1}`), "my-app")
	assert.Equal(t, Environment{"MY_APP_A": "1"}, env)
}

func TestBuild(t *testing.T) {
	env := Build(FromForm(url.Values{"testing": {"a"}}), "")
	assert.Equal(t, Environment{"HOOKHAND": "1", "HOOKHAND_TESTING": "a"}, env)

	env = Build(Mapping(), "ping")
	assert.Equal(t, Environment{"HOOKHAND": "1", "HOOKHAND_X_GITHUB_EVENT": "ping"}, env)
}

func TestEnvironment_Pairs(t *testing.T) {
	env := Environment{"B": "2", "A": "1", "C": "x=y"}
	assert.Equal(t, []string{"A=1", "B=2", "C=x=y"}, env.Pairs())
}
