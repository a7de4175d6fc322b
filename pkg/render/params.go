package render

import "github.com/taigrr/glance/pkg/viewport"

// Parameter and flag names read from each frame.
const (
	ParamLightAzimuth   = "light_azimuth"   // degrees around +Y
	ParamLightElevation = "light_elevation" // degrees above the horizon
	ParamDiffuse        = "diffuse"
	ParamSGSharpness    = "sg_sharpness"
	ParamSGAmplitude    = "sg_amplitude"

	FlagSpecular  = "specular"
	FlagTexture   = "texture"
	FlagWireframe = "wireframe"
)

// DefaultSliders returns the lighting controls the renderer understands.
func DefaultSliders() []viewport.Slider {
	return []viewport.Slider{
		{Name: ParamLightAzimuth, Label: "Light azimuth", Min: -180, Max: 180, Step: 5, Value: 45},
		{Name: ParamLightElevation, Label: "Light elevation", Min: -90, Max: 90, Step: 5, Value: 30},
		{Name: ParamDiffuse, Label: "Diffuse", Min: 0, Max: 2, Step: 0.05, Value: 1},
		{Name: ParamSGSharpness, Label: "SG sharpness", Min: 0, Max: 64, Step: 0.5, Value: 8},
		{Name: ParamSGAmplitude, Label: "SG amplitude", Min: 0, Max: 2, Step: 0.05, Value: 0.5},
	}
}

// DefaultFlags returns the renderer toggles and their initial state.
func DefaultFlags() map[string]bool {
	return map[string]bool{
		FlagSpecular:  true,
		FlagTexture:   true,
		FlagWireframe: false,
	}
}
