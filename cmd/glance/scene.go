package main

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/glance/pkg/models"
)

// sceneSize is the largest dimension models are scaled to.
const sceneSize = 2.0

// loadScene loads the model, applies the texture override and fits it
// around the origin.
func loadScene(path, texture string, logger *slog.Logger) (*models.Mesh, error) {
	mesh, err := models.Load(path, logger)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if texture != "" {
		img, err := models.LoadImage(texture)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		// Faces without a material get a default one so the override
		// reaches them too.
		fallback := -1
		for i := range mesh.Faces {
			if mesh.Faces[i].Material >= 0 {
				continue
			}
			if fallback < 0 {
				fallback = len(mesh.Materials)
				mesh.Materials = append(mesh.Materials, models.DefaultMaterial())
			}
			mesh.Faces[i].Material = fallback
		}
		for i := range mesh.Materials {
			mesh.Materials[i].Texture = img
		}
	}
	mesh.Normalize(sceneSize)
	return mesh, nil
}
