package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/panoselect/pkg/cubeface"
)

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  Reference
		want string
	}{
		{
			name: "up face",
			base: "https://cdn.example.com/cubemaps",
			ref:  Reference{Face: cubeface.PosY, PanoramaID: "P1"},
			want: "https://cdn.example.com/cubemaps/P1/P1_u.png",
		},
		{
			name: "trailing slash trimmed",
			base: "https://cdn.example.com/cubemaps/",
			ref:  Reference{Face: cubeface.NegZ, PanoramaID: "P1"},
			want: "https://cdn.example.com/cubemaps/P1/P1_b.png",
		},
		{
			name: "pano id with underscores",
			base: "https://app.example.com/images/cubemaps",
			ref:  Reference{Face: cubeface.PosZ, PanoramaID: "kr_nNmq_dO8LksFiWRXvMg"},
			want: "https://app.example.com/images/cubemaps/kr_nNmq_dO8LksFiWRXvMg/kr_nNmq_dO8LksFiWRXvMg_f.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageURL(tt.base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImageURLRejectsIncompleteReference(t *testing.T) {
	_, err := ImageURL("http://x", Reference{Face: cubeface.PosX})
	assert.Error(t, err)

	_, err = ImageURL("http://x", Reference{PanoramaID: "P1"})
	assert.Error(t, err)
}

func TestParseImageURLInvertsImageURL(t *testing.T) {
	for _, face := range cubeface.All {
		ref := Reference{Face: face, PanoramaID: "kr_nNmq_dO8LksFiWRXvMg"}
		u, err := ImageURL("https://app.example.com/images/cubemaps", ref)
		require.NoError(t, err)

		got, err := ParseImageURL(u)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestParseImageURLErrors(t *testing.T) {
	for _, raw := range []string{
		"https://cdn.example.com/P1.png",
		"https://cdn.example.com/cubemaps/P1/P1.png",
		"https://cdn.example.com/cubemaps/P1/P1_z.png",
		"://bad",
	} {
		_, err := ParseImageURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestReferenceString(t *testing.T) {
	assert.Equal(t, "P1/r", Reference{Face: cubeface.PosX, PanoramaID: "P1"}.String())
}
