package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/wpm/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "single part", input: "7"},
		{name: "three parts", input: "1.5.12"},
		{name: "many parts", input: "10.0.19041.1"},
		{name: "surrounding space", input: " 2.0 "},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "1.2a", wantErr: true},
		{name: "semver prerelease", input: "1.2.3-beta", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "trailing dot", input: "1.", wantErr: true},
		{name: "double dot", input: "1..2", wantErr: true},
		{name: "v prefix", input: "v1.0", wantErr: true},
		{name: "overflow", input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrParse)
				var pe *ParseError
				assert.ErrorAs(t, err, &pe)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, v)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1", "1.0.0", 0},
		{"1.0.0.0.0", "1", 0},
		{"1.5", "1.10", -1},
		{"2", "1.99.99", 1},
		{"1.2.3.4", "1.2.3", 1},
		{"0", "0.0.1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
		})
	}
}

func TestCompareIsTotalOrder(t *testing.T) {
	inputs := []string{"0", "0.1", "1", "1.0.1", "1.5", "1.10", "2", "2.0.0", "10.3.1"}
	vs := make([]*Version, len(inputs))
	for i, in := range inputs {
		vs[i] = MustParse(in)
	}

	for _, a := range vs {
		assert.Equal(t, 0, a.Compare(a), "reflexive for %s", a)
		for _, b := range vs {
			assert.Equal(t, -a.Compare(b), b.Compare(a), "antisymmetric for %s %s", a, b)
			for _, c := range vs {
				if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
					assert.LessOrEqual(t, a.Compare(c), 0, "transitive for %s %s %s", a, b, c)
				}
			}
		}
	}
}

func TestNormalized(t *testing.T) {
	assert.Equal(t, "1", MustParse("1.0.0").Normalized())
	assert.Equal(t, "0", MustParse("0.0").Normalized())
	assert.Equal(t, "1.0.2", MustParse("1.0.2.0").Normalized())
	assert.Equal(t, "1.0.2.0", MustParse("1.0.2.0").String())
}

func TestNewest(t *testing.T) {
	assert.Nil(t, Newest())
	assert.Equal(t, "2.1", Newest(MustParse("1.9"), MustParse("2.1"), MustParse("2.0.5")).String())
}

func TestVersionJSON(t *testing.T) {
	type doc struct {
		V *Version `json:"v"`
	}
	data, err := json.Marshal(doc{V: MustParse("3.2.1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"3.2.1"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.V.Equal(MustParse("3.2.1")))

	assert.Error(t, json.Unmarshal([]byte(`{"v":"x"}`), &out))
}
