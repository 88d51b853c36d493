package renderers

import (
	"math"

	"github.com/lixenwraith/petalfall/petals"
	"github.com/lixenwraith/petalfall/render"
)

// petalTwins swaps glyphs on each half turn so rotation reads as tumbling
var petalTwins = map[rune]rune{
	'✿': '❀',
	'❀': '✿',
	'*': '✱',
	'˚': '°',
}

// PetalRenderer draws every live particle at its interpolated pose
type PetalRenderer struct {
	field *petals.Field
}

func NewPetalRenderer(field *petals.Field) *PetalRenderer {
	return &PetalRenderer{field: field}
}

// Render implements SystemRenderer
func (r *PetalRenderer) Render(ctx render.Context, buf *render.Buffer) {
	r.field.Each(func(p petals.Particle) {
		pose := p.At(ctx.Now)
		if pose.Opacity <= 0 {
			return
		}

		x := int(math.Round(pose.X))
		y := int(math.Round(pose.Y))
		if y < 0 || y >= ctx.Height {
			return
		}

		glyph := p.Glyph
		if half := int(math.Abs(pose.Rotation)/180) % 2; half == 1 {
			if twin, ok := petalTwins[glyph]; ok {
				glyph = twin
			}
		}

		buf.SetFg(x, y, glyph, petalColor(p), pose.Opacity)
	})
}

// petalColor shades larger petals deeper pink
func petalColor(p petals.Particle) render.RGB {
	t := min(max(float64(p.Size)*p.Scale/4, 0), 1)
	return render.RgbPetalLight.Blend(render.RgbPetalDeep, 0.4+0.6*t)
}
