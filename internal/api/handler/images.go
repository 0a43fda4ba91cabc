package handler

import (
	"net/http"

	"github.com/christophe-asselin/7-differences/internal/api/request"
	"github.com/christophe-asselin/7-differences/internal/api/response"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/diffgen"
	"github.com/christophe-asselin/7-differences/internal/services/validation"
)

// ImagesHandler handles standalone image pair validation
type ImagesHandler struct {
	diffgen    *diffgen.Service
	validation *validation.Service
}

// NewImagesHandler creates an images handler
func NewImagesHandler(diffgen *diffgen.Service, validation *validation.Service) *ImagesHandler {
	return &ImagesHandler{
		diffgen:    diffgen,
		validation: validation,
	}
}

// Validate handles POST /api/images/validate: checks an image pair for the
// required seven differences without creating a game. Used by the game
// creation form for immediate feedback.
func (h *ImagesHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteError(w, NewInvalidRequestError("expected a multipart form with both images"))
		return
	}

	original, err := readBitmapFile(r, request.FieldOriginalImage)
	if err != nil {
		WriteError(w, err)
		return
	}
	modified, err := readBitmapFile(r, request.FieldModifiedImage)
	if err != nil {
		WriteError(w, err)
		return
	}

	diff := h.diffgen.GenerateDifferenceImage(original, modified)
	result := h.validation.VerifyImageDifference(diff)

	resp := model.ImageValidation{Body: result.Message}
	if result.Valid {
		resp.Title = model.TitleSuccess
		resp.DifferenceRegions = result.Regions.Regions
	} else {
		resp.Title = model.TitleFail
	}
	response.JSON(w, http.StatusOK, resp)
}
