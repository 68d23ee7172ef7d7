package envmap

import (
	"sort"
	"strings"
)

const (
	// DefaultPrefix namespaces every request-derived variable.
	DefaultPrefix = "hookhand"

	// MarkerKey is always set so scripts can tell they run under HookHand.
	MarkerKey = "HOOKHAND"

	// GitHubEventKey carries the X-GitHub-Event header when present.
	GitHubEventKey = "HOOKHAND_X_GITHUB_EVENT"
)

// Environment is a set of environment variable assignments.
type Environment map[string]string

// Pairs returns the environment as sorted KEY=value strings.
func (e Environment) Pairs() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e[k])
	}
	return pairs
}

// Build maps request parameters under DefaultPrefix and adds the marker and
// GitHub event variables.
func Build(params Value, githubEvent string) Environment {
	env := MapToEnvironment(params, DefaultPrefix)
	env[MarkerKey] = "1"
	if githubEvent != "" {
		env[GitHubEventKey] = githubEvent
	}
	return env
}

// MapToEnvironment flattens params into KEYPREFIX_NAME[_NAME...] variables.
//
// Sequence elements are read as (key, value) pairs: a nested sequence supplies
// its first two items, anything else is a key with a null value. A key that is
// itself a Sequence or Mapping is walked with the unchanged prefix and its
// paired value is dropped. Later assignments overwrite earlier ones.
func MapToEnvironment(params Value, keyPrefix string) Environment {
	env := make(Environment)
	walk(env, params, keyPrefix)
	return env
}

func walk(env Environment, params Value, keyPrefix string) {
	switch params.Kind {
	case KindMapping:
		for _, e := range params.Entries {
			assign(env, keyPrefix, Scalar(e.Key), e.Value)
		}
	case KindSequence:
		for _, item := range params.Items {
			key, value := pair(item)
			assign(env, keyPrefix, key, value)
		}
	}
}

func pair(item Value) (Value, Value) {
	if item.Kind != KindSequence {
		return item, Null()
	}
	key, value := Null(), Null()
	if len(item.Items) > 0 {
		key = item.Items[0]
	}
	if len(item.Items) > 1 {
		value = item.Items[1]
	}
	return key, value
}

func assign(env Environment, keyPrefix string, key, value Value) {
	if key.Complex() {
		walk(env, key, keyPrefix)
		return
	}

	envKey := sanitize(keyPrefix) + "_" + sanitize(key.String())
	if value.Complex() {
		walk(env, value, envKey)
		return
	}
	env[envKey] = value.String()
}

// sanitize upper-cases s and replaces anything outside [A-Z0-9_] with '_'.
func sanitize(s string) string {
	upper := strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, upper)
}
