package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolutionMegaPixels performs table-driven tests on MegaPixels.
func TestResolutionMegaPixels(t *testing.T) {
	testCases := []struct {
		name     string
		res      Resolution
		expected float64
	}{
		{"Full HD 1080p", resolutions[ResolutionAlias1080p], 2.07},
		{"4K UHD", resolutions[ResolutionAlias4K], 8.29},
		{"Square 512", resolutions[ResolutionAlias512], 0.26},
		{"Zero Width", Resolution{Size: Size{Width: 0, Height: 1080}}, 0.0},
		{"Negative Width", Resolution{Size: Size{Width: -1920, Height: 1080}}, 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.res.MegaPixels())
		})
	}
}

// TestResolutionString verifies the human-readable string output for a resolution.
func TestResolutionString(t *testing.T) {
	res, ok := ResolutionByAlias("1080P")
	require.True(t, ok)
	assert.Equal(t, "Full HD 1080p (1920x1080, 2.07MP)", res.String())
	assert.Equal(t, ResolutionAlias1080p, res.Alias)
}

func TestResolutionsOrdered(t *testing.T) {
	all := Resolutions()
	require.Len(t, all, len(resolutions))
	for i := 1; i < len(all); i++ {
		prev := all[i-1].Size.Width * all[i-1].Size.Height
		cur := all[i].Size.Width * all[i].Size.Height
		assert.LessOrEqual(t, prev, cur, "%s before %s", all[i-1].Alias, all[i].Alias)
	}
	for _, res := range all {
		assert.NotEmpty(t, res.Alias)
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{in: "720p", want: Size{Width: 1280, Height: 720}},
		{in: " 4K ", want: Size{Width: 3840, Height: 2160}},
		{in: "640x360", want: Size{Width: 640, Height: 360}},
		{in: "50X50", want: Size{Width: 50, Height: 50}},
		{in: "0x50", wantErr: true},
		{in: "12x", wantErr: true},
		{in: "huge", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResolution(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownResolution)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLargestWithin(t *testing.T) {
	res, ok := LargestWithin(2000, 1100)
	require.True(t, ok)
	assert.Equal(t, ResolutionAlias1080p, res.Alias)

	res, ok = LargestWithin(800, 800)
	require.True(t, ok)
	assert.Equal(t, ResolutionAlias768, res.Alias)

	_, ok = LargestWithin(100, 100)
	assert.False(t, ok)
}
