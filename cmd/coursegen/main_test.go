package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowOverrides(t *testing.T) {
	got, err := parseRowOverrides([]string{"student=100", " class =20"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"student": 100, "class": 20}, got)

	got, err = parseRowOverrides(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseRowOverrides([]string{"student"})
	assert.Error(t, err)
	_, err = parseRowOverrides([]string{"student=many"})
	assert.Error(t, err)
}

func TestLooksLikePath(t *testing.T) {
	assert.True(t, looksLikePath("scenarios/school.yaml"))
	assert.True(t, looksLikePath("library.toml"))
	assert.False(t, looksLikePath("school-small"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-ffff"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestScenarioValidateStrict(t *testing.T) {
	scenariosDir = "../../scenarios"

	for _, id := range []string{"school", "library", "registrar"} {
		cmd := scenarioCmd()
		cmd.SetArgs([]string{"validate", "--strict", id})
		assert.NoError(t, cmd.Execute(), id)
	}

	cmd := scenarioCmd()
	cmd.SetArgs([]string{"validate", "--strict", "dorms"})
	assert.Error(t, cmd.Execute())
}
