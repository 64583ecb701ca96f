// Package handoff tells the external editing service which cubemap face
// image to open.
package handoff

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/Faultbox/panoselect/pkg/cubeface"
)

// Reference is a confirmed face selection. It is captured once and not
// modified afterwards.
type Reference struct {
	Face       cubeface.Face
	PanoramaID string
}

// String returns "<pano>/<code>".
func (r Reference) String() string {
	return r.PanoramaID + "/" + r.Face.Code()
}

// Valid reports whether both fields are set.
func (r Reference) Valid() bool {
	return r.Face.Valid() && r.PanoramaID != ""
}

// ImageURL composes {base}/{pano}/{pano}_{code}.png.
func ImageURL(base string, ref Reference) (string, error) {
	if !ref.Valid() {
		return "", fmt.Errorf("incomplete reference %+v", ref)
	}
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/%s/%s_%s.png", base, ref.PanoramaID, ref.PanoramaID, ref.Face.Code()), nil
}

// ParseImageURL recovers the reference from a face image URL produced by
// ImageURL. The panorama id is taken from the parent folder and the face
// from the last underscore-separated token of the file name.
func ParseImageURL(raw string) (Reference, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, fmt.Errorf("parsing image url: %w", err)
	}

	file := path.Base(u.Path)
	pano := path.Base(path.Dir(u.Path))
	if pano == "/" || pano == "." || pano == "" {
		return Reference{}, fmt.Errorf("image url %q has no panorama folder", raw)
	}

	stem := strings.TrimSuffix(file, path.Ext(file))
	cut := strings.LastIndex(stem, "_")
	if cut < 0 {
		return Reference{}, fmt.Errorf("image file %q has no face suffix", file)
	}

	face, err := cubeface.ParseCode(stem[cut+1:])
	if err != nil {
		return Reference{}, fmt.Errorf("image file %q: %w", file, err)
	}

	return Reference{Face: face, PanoramaID: pano}, nil
}
