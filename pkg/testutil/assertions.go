package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	require.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// AssertJSONMessage checks that body is {"message": want}.
func AssertJSONMessage(t *testing.T, body []byte, want string) {
	t.Helper()
	var got struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &got), "body: %s", body)
	assert.Equal(t, want, got.Message)
}
