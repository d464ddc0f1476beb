package gfx

import "github.com/hajimehoshi/ebiten/v2"

// BlendMode selects how a draw is composited onto the target.
type BlendMode uint8

const (
	BlendAlpha    BlendMode = iota // src*srcAlpha + dst*(1-srcAlpha)
	BlendAdditive                  // src + dst
	BlendMultiply                  // src * dst
	BlendOpaque                    // src replaces dst
)

func (b BlendMode) String() string {
	switch b {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	case BlendMultiply:
		return "multiply"
	case BlendOpaque:
		return "opaque"
	}
	return "unknown"
}

// EbitenBlend returns the ebiten.Blend for this mode. Ebitengine works on
// premultiplied colors, so alpha blending is source-over.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdditive:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendOpaque:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}
