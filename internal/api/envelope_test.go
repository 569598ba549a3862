// internal/api/envelope_test.go
package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantData    string
	}{
		{
			name:        "full envelope",
			body:        `{"success":true,"message":"ok","data":{"id":"a1"}}`,
			wantSuccess: true,
			wantData:    `{"id":"a1"}`,
		},
		{
			name:        "bare array payload",
			body:        `[{"id":"a1"},{"id":"a2"}]`,
			wantSuccess: true,
			wantData:    `[{"id":"a1"},{"id":"a2"}]`,
		},
		{
			name:        "bare object without envelope markers",
			body:        `{"id":"a1","stage":"Applied"}`,
			wantSuccess: true,
			wantData:    `{"id":"a1","stage":"Applied"}`,
		},
		{
			name:        "empty body",
			body:        "",
			wantSuccess: true,
			wantData:    "",
		},
		{
			name:        "failure envelope",
			body:        `{"success":false,"message":"nope","data":null}`,
			wantSuccess: false,
			wantData:    "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantData, string(env.Data))
		})
	}
}

func TestParseEnvelope_Malformed(t *testing.T) {
	_, err := ParseEnvelope([]byte(`{"success":`))
	require.Error(t, err)
}

func TestEnvelope_Decode(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success":true,"data":{"id":"a1"}}`))
	require.NoError(t, err)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.Decode(&out))
	assert.Equal(t, "a1", out.ID)
}

func TestEnvelope_Decode_NullData(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success":false,"data":null}`))
	require.NoError(t, err)

	out := struct {
		ID string `json:"id"`
	}{ID: "untouched"}
	require.NoError(t, env.Decode(&out))
	assert.Equal(t, "untouched", out.ID, "null data must leave the target untouched")
}

func TestEnvelope_Pagination(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"success":true,"data":[],"pagination":{"page":2,"page_size":20,"total_counts":45,"total_pages":3}}`))
	require.NoError(t, err)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 45, env.Pagination.TotalCounts)
}
