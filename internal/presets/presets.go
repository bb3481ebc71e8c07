package presets

import (
	"maps"
	"slices"

	"github.com/abdul-hamid-achik/qimage/internal/processor"
)

// Preset is a named resize size. A zero Height means the Width is applied
// to the longer side of the image and the other side follows its aspect
// ratio.
type Preset struct {
	Width  int
	Height int
}

var Thumbnail = Preset{Width: 150}

var Responsive = map[string]Preset{
	"sm": {Width: 640},
	"md": {Width: 1024},
	"lg": {Width: 1920},
	"xl": {Width: 2560},
}

var Social = map[string]Preset{
	"og":                 {Width: 1200, Height: 630},
	"twitter":            {Width: 1200, Height: 675},
	"instagram_square":   {Width: 1080, Height: 1080},
	"instagram_portrait": {Width: 1080, Height: 1350},
	"instagram_story":    {Width: 1080, Height: 1920},
}

var All = map[string]Preset{
	"thumbnail":          Thumbnail,
	"sm":                 Responsive["sm"],
	"md":                 Responsive["md"],
	"lg":                 Responsive["lg"],
	"xl":                 Responsive["xl"],
	"og":                 Social["og"],
	"twitter":            Social["twitter"],
	"instagram_square":   Social["instagram_square"],
	"instagram_portrait": Social["instagram_portrait"],
	"instagram_story":    Social["instagram_story"],
}

func Get(name string) (Preset, bool) {
	p, ok := All[name]
	return p, ok
}

func IsSocialPreset(name string) bool {
	_, ok := Social[name]
	return ok
}

func IsResponsivePreset(name string) bool {
	_, ok := Responsive[name]
	return ok
}

// Names returns every preset name in lexical order.
func Names() []string {
	return slices.Sorted(maps.Keys(All))
}

// Request builds a proportional resize of source into outputDir.
func (p Preset) Request(source, outputDir string) *processor.ResizeRequest {
	return &processor.ResizeRequest{
		Source:    source,
		Width:     p.Width,
		Height:    p.Height,
		OutputDir: outputDir,
	}
}
