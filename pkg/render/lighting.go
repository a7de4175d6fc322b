package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/taigrr/glance/pkg/models"
	"github.com/taigrr/glance/pkg/viewport"
)

// referenceRoughness is the material roughness at which the sharpness
// slider applies unchanged.
const referenceRoughness = 0.5

// minRoughness keeps mirror-like materials from collapsing the lobe.
const minRoughness = 0.05

// Shading is the per-frame lighting state.
type Shading struct {
	Light     mgl64.Vec3 // Unit vector towards the light
	Ambient   float64
	Diffuse   float64
	Sharpness float64 // Spherical gaussian lambda
	Amplitude float64 // Spherical gaussian peak
	Metallic  float64 // Tints the lobe with the base color
	Specular  bool
	Textured  bool
	Wireframe bool
	Filter    FilterMode
}

// ShadingFromParams reads the lighting sliders and flags of a frame. Fast
// frames sample textures with nearest filtering.
func ShadingFromParams(p viewport.ParamSnapshot, q viewport.Quality, ambient float64) Shading {
	az := mgl64.DegToRad(p.Value(ParamLightAzimuth, 45))
	el := mgl64.DegToRad(p.Value(ParamLightElevation, 30))
	s := Shading{
		Light:     LightDirection(az, el),
		Ambient:   ambient,
		Diffuse:   p.Value(ParamDiffuse, 1),
		Sharpness: p.Value(ParamSGSharpness, 8),
		Amplitude: p.Value(ParamSGAmplitude, 0.5),
		Specular:  p.Flag(FlagSpecular, true),
		Textured:  p.Flag(FlagTexture, true),
		Wireframe: p.Flag(FlagWireframe, false),
		Filter:    FilterBilinear,
	}
	if q == viewport.Fast {
		s.Filter = FilterNearest
	}
	return s
}

// LightDirection converts azimuth and elevation (radians) to a unit vector.
// Azimuth 0 points along +Z.
func LightDirection(azimuth, elevation float64) mgl64.Vec3 {
	ce := math.Cos(elevation)
	return mgl64.Vec3{ce * math.Sin(azimuth), math.Sin(elevation), ce * math.Cos(azimuth)}
}

// SG evaluates the spherical gaussian lobe amp * exp(lambda * (r.l - 1)).
func SG(r, l mgl64.Vec3, lambda, amp float64) float64 {
	return amp * math.Exp(lambda*(r.Dot(l)-1))
}

// ForMaterial adapts the specular lobe to a material. Sharpness scales
// with 1/roughness² relative to referenceRoughness, so smooth surfaces get
// tighter highlights.
func (s Shading) ForMaterial(m models.Material) Shading {
	r := mgl64.Clamp(m.Roughness, minRoughness, 1)
	s.Sharpness *= referenceRoughness * referenceRoughness / (r * r)
	s.Metallic = mgl64.Clamp(m.Metallic, 0, 1)
	return s
}

// Shade lights a base color at a point with unit normal n seen from unit
// direction view (point towards eye).
func (s Shading) Shade(base Color, n, view mgl64.Vec3) Color {
	lambert := math.Max(0, n.Dot(s.Light))
	k := s.Ambient + s.Diffuse*lambert

	var spec float64
	if s.Specular && lambert > 0 {
		// Mirror the view direction about the normal.
		r := n.Mul(2 * n.Dot(view)).Sub(view)
		spec = SG(r, s.Light, s.Sharpness, s.Amplitude) * 255
	}
	ch := func(c uint8) uint8 {
		// Dielectric highlights are white, metallic ones take the base color.
		tint := 1 - s.Metallic + s.Metallic*float64(c)/255
		return uint8(math.Min(255, float64(c)*k+spec*tint))
	}
	return Color{R: ch(base.R), G: ch(base.G), B: ch(base.B), A: 255}
}
