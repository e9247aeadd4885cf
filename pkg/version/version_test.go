package version

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr bool
	}{
		{
			name:  "plain release",
			input: "1.2.3",
			want:  Version{Major: 1, Minor: 2, Patch: 3},
		},
		{
			name:  "zero version",
			input: "0.0.0",
			want:  Version{},
		},
		{
			name:  "multi-digit components",
			input: "10.20.30",
			want:  Version{Major: 10, Minor: 20, Patch: 30},
		},
		{
			name:  "pre-release suffix",
			input: "1.0.0-alpha.1",
			want:  Version{Major: 1, Minor: 0, Patch: 0, Pre: "alpha.1"},
		},
		{
			name:  "pre-release with hyphen",
			input: "2.1.0-rc-2",
			want:  Version{Major: 2, Minor: 1, Patch: 0, Pre: "rc-2"},
		},
		{
			name:    "two components",
			input:   "1.2",
			wantErr: true,
		},
		{
			name:    "four components",
			input:   "1.2.3.4",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "non-numeric component",
			input:   "1.x.3",
			wantErr: true,
		},
		{
			name:    "negative component",
			input:   "1.-2.3",
			wantErr: true,
		},
		{
			name:    "empty pre-release",
			input:   "1.2.3-",
			wantErr: true,
		},
		{
			name:    "pre-release with invalid character",
			input:   "1.2.3-beta+build",
			wantErr: true,
		},
		{
			name:    "leading v",
			input:   "v1.2.3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "1.2.3", Version{Major: 1, Minor: 2, Patch: 3}.String())
	assert.Equal(t, "1.0.0-beta.2", Version{Major: 1, Pre: "beta.2"}.String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "1.2.3", b: "1.2.3", want: 0},
		{name: "major wins", a: "2.0.0", b: "1.9.9", want: 1},
		{name: "minor decides", a: "1.3.0", b: "1.10.0", want: -1},
		{name: "numeric not lexicographic", a: "1.2.0", b: "1.10.0", want: -1},
		{name: "patch decides", a: "1.2.4", b: "1.2.3", want: 1},
		{name: "pre-release ignored", a: "1.0.0-alpha", b: "1.0.0-beta", want: 0},
		{name: "pre-release equals release", a: "1.0.0-rc.1", b: "1.0.0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.a)
			require.NoError(t, err)
			b, err := Parse(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Compare(a, b))
			assert.Equal(t, -tt.want, Compare(b, a))
		})
	}
}

func TestCompareStrings(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "well-formed", a: "1.2.0", b: "1.10.0", want: -1},
		{name: "malformed defaults to zero", a: "garbage", b: "0.0.0", want: 0},
		{name: "missing components default", a: "1", b: "1.0.0", want: 0},
		{name: "partial beats zero", a: "1.2", b: "1.0.0", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareStrings(tt.a, tt.b))
		})
	}
}

// Compare must impose a total order consistent with numeric component
// ordering when used to sort.
func TestCompareStringsSort(t *testing.T) {
	versions := []string{"1.10.0", "0.9.1", "2.0.0", "1.2.0", "1.2.10", "1.2.3"}
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareStrings(versions[i], versions[j]) > 0
	})
	assert.Equal(t, []string{"2.0.0", "1.10.0", "1.2.10", "1.2.3", "1.2.0", "0.9.1"}, versions)
}
