package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/taigrr/glance/pkg/models"
	"github.com/taigrr/glance/pkg/viewport"
)

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d", i)
	}
}

func TestLightDirection(t *testing.T) {
	assertVec(t, mgl64.Vec3{0, 0, 1}, LightDirection(0, 0))
	assertVec(t, mgl64.Vec3{1, 0, 0}, LightDirection(math.Pi/2, 0))
	assertVec(t, mgl64.Vec3{0, 1, 0}, LightDirection(0, math.Pi/2))
}

func TestSG(t *testing.T) {
	l := mgl64.Vec3{0, 0, 1}
	assert.InDelta(t, 0.7, SG(l, l, 12, 0.7), 1e-12, "peak equals amplitude")
	assert.InDelta(t, 0.7*math.Exp(-12), SG(mgl64.Vec3{1, 0, 0}, l, 12, 0.7), 1e-12)
	assert.InDelta(t, 0.7, SG(mgl64.Vec3{1, 0, 0}, l, 0, 0.7), 1e-12, "zero sharpness is flat")
}

func TestShadingFromParams(t *testing.T) {
	s := ShadingFromParams(viewport.ParamSnapshot{}, viewport.Full, 0.2)
	assert.Equal(t, 8.0, s.Sharpness)
	assert.True(t, s.Specular)
	assert.True(t, s.Textured)
	assert.False(t, s.Wireframe)
	assert.Equal(t, FilterBilinear, s.Filter)

	fast := ShadingFromParams(viewport.ParamSnapshot{
		Values: map[string]float64{ParamSGSharpness: 5},
		Flags:  map[string]bool{FlagSpecular: false},
	}, viewport.Fast, 0.2)
	assert.Equal(t, 5.0, fast.Sharpness)
	assert.False(t, fast.Specular)
	assert.Equal(t, FilterNearest, fast.Filter)
}

func TestShadeFacingAway(t *testing.T) {
	s := Shading{Light: mgl64.Vec3{0, 0, 1}, Ambient: 0.1, Diffuse: 1, Sharpness: 4, Amplitude: 1, Specular: true}
	c := s.Shade(RGB(200, 200, 200), mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 0, -1})
	assert.Equal(t, uint8(20), c.R, "only ambient, no specular")
}

func TestForMaterialScalesLobe(t *testing.T) {
	base := Shading{Sharpness: 8}

	assert.InDelta(t, 8, base.ForMaterial(models.Material{Roughness: 0.5}).Sharpness, 1e-12)
	assert.InDelta(t, 2, base.ForMaterial(models.Material{Roughness: 1}).Sharpness, 1e-12)
	assert.InDelta(t, 32, base.ForMaterial(models.Material{Roughness: 0.25}).Sharpness, 1e-12)
	assert.InDelta(t, 800, base.ForMaterial(models.Material{Roughness: 0}).Sharpness, 1e-9, "clamped at minRoughness")

	m := base.ForMaterial(models.Material{Roughness: 0.5, Metallic: 3})
	assert.Equal(t, 1.0, m.Metallic)
}

func TestShadeMetallicTintsHighlight(t *testing.T) {
	s := Shading{Light: mgl64.Vec3{0, 0, 1}, Diffuse: 0, Sharpness: 8, Amplitude: 0.5, Specular: true}
	n, view := mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}
	red := RGB(200, 0, 0)

	dielectric := s.Shade(red, n, view)
	assert.Equal(t, uint8(127), dielectric.G, "white highlight")

	s.Metallic = 1
	metal := s.Shade(red, n, view)
	assert.Zero(t, metal.G, "highlight takes the base color")
	assert.InDelta(t, 100, float64(metal.R), 1)
}

func TestDefaultSlidersAreValid(t *testing.T) {
	p, err := viewport.NewParams(DefaultSliders(), DefaultFlags())
	assert.NoError(t, err)
	v, ok := p.Value(ParamSGSharpness)
	assert.True(t, ok)
	assert.Equal(t, 8.0, v)
}
