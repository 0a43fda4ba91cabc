package request

import "github.com/christophe-asselin/7-differences/internal/model"

// CreateFreeGameRequest is the request body for creating a 3D game
type CreateFreeGameRequest struct {
	Name             string           `json:"name"`
	OriginalImageURL string           `json:"originalImageURL"`
	OriginalObjects  []model.Object3D `json:"originalObjects"`
	ModifiedObjects  []model.Object3D `json:"modifiedObjects"`
}

// Multipart field names shared by the image upload endpoints
const (
	FieldName          = "name"
	FieldOriginalImage = "originalImage"
	FieldModifiedImage = "modifiedImage"
)
