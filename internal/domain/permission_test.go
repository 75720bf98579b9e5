package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalWildcardGrantsEverything(t *testing.T) {
	held := NewPermissionSet("*")

	for _, required := range []Permission{"tasks.edit", "projects.delete", "anything", "a.b"} {
		assert.True(t, held.Has(required), "wildcard should grant %q", required)
	}
}

func TestCategoryWildcard(t *testing.T) {
	held := NewPermissionSet("tasks.*")

	assert.True(t, held.Has("tasks.edit"))
	assert.True(t, held.Has("tasks.view"))
	assert.False(t, held.Has("projects.edit"))
	assert.False(t, held.Has("tasks"), "bare category has no dot, so only exact or global match applies")
}

func TestExactMatch(t *testing.T) {
	held := NewPermissionSet("tasks.edit")

	assert.True(t, held.Has("tasks.edit"))
	assert.False(t, held.Has("tasks.delete"))
	assert.False(t, held.Has("tasks.edit.all"), "no prefix matching beyond the category wildcard")
}

func TestMatchingIsCaseSensitive(t *testing.T) {
	held := NewPermissionSet("Tasks.*")

	assert.False(t, held.Has("tasks.edit"))
}

func TestRequiredWithoutSeparator(t *testing.T) {
	assert.True(t, NewPermissionSet("billing").Has("billing"))
	assert.False(t, NewPermissionSet("billing.*").Has("billing"))
	assert.True(t, NewPermissionSet("*").Has("billing"))
}

func TestHasAnyShortCircuits(t *testing.T) {
	held := NewPermissionSet("tasks.view")

	assert.True(t, held.HasAny("projects.view", "tasks.view", "comments.view"))
	assert.False(t, held.HasAny("projects.view", "comments.view"))
	assert.False(t, held.HasAny())
}

func TestParsePermissionRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", " tasks.edit", "tasks.edit ", "a.*.b", "tasks.sub.*", "*.edit"} {
		_, err := ParsePermission(raw)
		assert.Error(t, err, "expected %q to be rejected", raw)
	}

	for _, raw := range []string{"*", "tasks.*", "tasks.edit", "billing"} {
		_, err := ParsePermission(raw)
		assert.NoError(t, err, "expected %q to parse", raw)
	}
}

func TestParsePermissionsDropsMalformedEntries(t *testing.T) {
	set, err := ParsePermissions([]byte(`["tasks.edit", "a.*.b", "projects.*"]`))

	require.Error(t, err)
	assert.True(t, set.Has("tasks.edit"))
	assert.True(t, set.Has("projects.view"))
	assert.False(t, set.Has("reports.view"))
}

func TestParsePermissionsBadJSONYieldsEmptySet(t *testing.T) {
	set, err := ParsePermissions([]byte(`{"not": "an array"}`))

	require.Error(t, err)
	assert.Empty(t, set)
	assert.False(t, set.Has("tasks.edit"))
}

func TestParsePermissionsEmptyPayload(t *testing.T) {
	set, err := ParsePermissions(nil)

	require.NoError(t, err)
	assert.Empty(t, set)
}
