package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigString(t *testing.T) {
	config := map[string]any{"user": "", "username": "sa", "port": 1}

	s, ok := ConfigString(config, "user", "username")
	assert.True(t, ok)
	assert.Equal(t, "sa", s)

	_, ok = ConfigString(config, "port")
	assert.False(t, ok)

	_, err := RequiredString(config, "host")
	assert.EqualError(t, err, "host is required")
}

func TestConfigInt(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantSet bool
		wantErr bool
	}{
		{"missing", nil, 0, false, false},
		{"int", 5432, 5432, true, false},
		{"json number", float64(6543), 6543, true, false},
		{"string", "1433", 1433, true, false},
		{"fraction", 1.5, 0, false, true},
		{"garbage", "abc", 0, false, true},
		{"wrong type", []string{"1"}, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := map[string]any{}
			if tt.value != nil {
				config["port"] = tt.value
			}
			got, set, err := ConfigInt(config, "port")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSet, set)
		})
	}
}

func TestConfigBool(t *testing.T) {
	config := map[string]any{"a": true, "b": "false", "c": "strict", "d": "nonsense"}

	v, ok := ConfigBool(config, "a")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = ConfigBool(config, "b")
	assert.True(t, ok)
	assert.False(t, v)

	v, _ = ConfigBool(config, "c", "strict")
	assert.True(t, v)

	v, ok = ConfigBool(config, "d")
	assert.True(t, ok)
	assert.False(t, v)

	_, ok = ConfigBool(config, "missing")
	assert.False(t, ok)
}
