package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONB(t *testing.T) {
	meta := map[string]string{"skip_count": "2"}
	v, err := JSONB[map[string]string]{V: &meta}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"skip_count":"2"}`, string(v.([]byte)))

	var out map[string]string
	require.NoError(t, JSONB[map[string]string]{V: &out}.Scan([]byte(`{"a":"b"}`)))
	assert.Equal(t, map[string]string{"a": "b"}, out)

	var untouched map[string]string
	require.NoError(t, JSONB[map[string]string]{V: &untouched}.Scan(nil))
	assert.Nil(t, untouched)

	assert.Error(t, JSONB[map[string]string]{V: &out}.Scan(42))

	null, err := JSONB[map[string]string]{}.Value()
	require.NoError(t, err)
	assert.Nil(t, null)
}
