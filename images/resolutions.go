package images

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// AspectRatio represents an aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Defines the aspect ratios of the built-in presets.
const (
	AspectRatio11  AspectRatio = "1:1"
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio32  AspectRatio = "3:2"
	AspectRatio916 AspectRatio = "9:16"
)

// ResolutionAlias is the short name a resolution preset is selected by.
type ResolutionAlias string

// Defines the built-in resolution presets. The square sizes match the native
// input sizes of common generation models.
const (
	ResolutionAlias512      ResolutionAlias = "512"
	ResolutionAlias768      ResolutionAlias = "768"
	ResolutionAlias1024     ResolutionAlias = "1024"
	ResolutionAlias480p     ResolutionAlias = "480p"
	ResolutionAlias720p     ResolutionAlias = "720p"
	ResolutionAlias1080p    ResolutionAlias = "1080p"
	ResolutionAlias1440p    ResolutionAlias = "1440p"
	ResolutionAlias4K       ResolutionAlias = "4k"
	ResolutionAliasVGA      ResolutionAlias = "vga"
	ResolutionAlias2MP      ResolutionAlias = "2mp"
	ResolutionAliasPortrait ResolutionAlias = "portrait"
)

// ErrUnknownResolution is returned by ParseResolution for unrecognized input.
var ErrUnknownResolution = errors.New("unknown resolution")

// Resolution describes a named target size.
type Resolution struct {
	Name        string          `json:"name" yaml:"name"`
	Alias       ResolutionAlias `json:"alias" yaml:"alias"`
	AspectRatio AspectRatio     `json:"aspectRatio" yaml:"aspectRatio"`
	Size        Size            `json:"size" yaml:"size"`
}

// MegaPixels calculates the megapixel value based on the resolution's pixel dimensions.
// It returns the value rounded to two decimal places (e.g., 2.07 for 1080p).
func (r Resolution) MegaPixels() float64 {
	if r.Size.Width <= 0 || r.Size.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Size.Width*r.Size.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%s, %.2fMP)", r.Name, r.Size, r.MegaPixels())
}

var resolutions = map[ResolutionAlias]Resolution{
	ResolutionAlias512: {
		Name:        "Square 512",
		AspectRatio: AspectRatio11,
		Size:        Size{Width: 512, Height: 512},
	},
	ResolutionAlias768: {
		Name:        "Square 768",
		AspectRatio: AspectRatio11,
		Size:        Size{Width: 768, Height: 768},
	},
	ResolutionAlias1024: {
		Name:        "Square 1024",
		AspectRatio: AspectRatio11,
		Size:        Size{Width: 1024, Height: 1024},
	},
	ResolutionAliasVGA: {
		Name:        "VGA",
		AspectRatio: AspectRatio43,
		Size:        Size{Width: 640, Height: 480},
	},
	ResolutionAlias480p: {
		Name:        "FWVGA 480p",
		AspectRatio: AspectRatio169,
		Size:        Size{Width: 854, Height: 480},
	},
	ResolutionAlias720p: {
		Name:        "HD 720p",
		AspectRatio: AspectRatio169,
		Size:        Size{Width: 1280, Height: 720},
	},
	ResolutionAlias1080p: {
		Name:        "Full HD 1080p",
		AspectRatio: AspectRatio169,
		Size:        Size{Width: 1920, Height: 1080},
	},
	ResolutionAlias2MP: {
		Name:        "2MP (4:3)",
		AspectRatio: AspectRatio43,
		Size:        Size{Width: 1600, Height: 1200},
	},
	ResolutionAlias1440p: {
		Name:        "QHD 1440p",
		AspectRatio: AspectRatio169,
		Size:        Size{Width: 2560, Height: 1440},
	},
	ResolutionAlias4K: {
		Name:        "4K UHD",
		AspectRatio: AspectRatio169,
		Size:        Size{Width: 3840, Height: 2160},
	},
	ResolutionAliasPortrait: {
		Name:        "Portrait 768",
		AspectRatio: AspectRatio916,
		Size:        Size{Width: 432, Height: 768},
	},
}

func init() {
	for alias, res := range resolutions {
		res.Alias = alias
		resolutions[alias] = res
	}
}

// Resolutions returns every preset ordered by pixel count, then by alias.
func Resolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		pi := all[i].Size.Width * all[i].Size.Height
		pj := all[j].Size.Width * all[j].Size.Height
		if pi != pj {
			return pi < pj
		}
		return all[i].Alias < all[j].Alias
	})
	return all
}

// ResolutionByAlias retrieves a preset by alias (case-insensitive).
func ResolutionByAlias(alias string) (Resolution, bool) {
	res, ok := resolutions[ResolutionAlias(strings.ToLower(strings.TrimSpace(alias)))]
	return res, ok
}

// ParseResolution resolves a preset alias such as "1080p" or an explicit
// "WIDTHxHEIGHT" size.
//
// Arguments:
//   - s: The alias or size string.
//
// Returns:
//   - Size: The target dimensions.
//   - error: ErrUnknownResolution if s is neither.
func ParseResolution(s string) (Size, error) {
	if res, ok := ResolutionByAlias(s); ok {
		return res.Size, nil
	}

	w, h, found := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if found {
		width, werr := strconv.Atoi(w)
		height, herr := strconv.Atoi(h)
		if werr == nil && herr == nil && width > 0 && height > 0 {
			return Size{Width: width, Height: height}, nil
		}
	}

	return Size{}, errors.Wrapf(ErrUnknownResolution, "%q", s)
}

// LargestWithin retrieves the preset with the most pixels that fits inside
// the given dimensions.
//
// Arguments:
//   - width: The maximum width.
//   - height: The maximum height.
//
// Returns:
//   - Resolution: The largest fitting preset.
//   - bool: True if a preset was found, otherwise false.
func LargestWithin(width, height int) (Resolution, bool) {
	var largest Resolution
	var found bool

	for _, res := range Resolutions() {
		if res.Size.Width <= width && res.Size.Height <= height {
			largest = res
			found = true
		}
	}
	return largest, found
}
