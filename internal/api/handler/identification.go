package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/christophe-asselin/7-differences/internal/api/request"
	"github.com/christophe-asselin/7-differences/internal/api/response"
	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/catalog"
	"github.com/christophe-asselin/7-differences/internal/services/identify"
)

// maxUploadSize bounds multipart image uploads. Two uncompressed 640x480
// images fit comfortably.
const maxUploadSize = 16 << 20

// IdentificationHandler handles click and object identification endpoints
type IdentificationHandler struct {
	catalog  *catalog.Service
	identify *identify.Service
}

// NewIdentificationHandler creates an identification handler
func NewIdentificationHandler(catalog *catalog.Service, identify *identify.Service) *IdentificationHandler {
	return &IdentificationHandler{
		catalog:  catalog,
		identify: identify,
	}
}

// Simple handles POST /api/identification/simple/{gameID}/{x}/{y}
func (h *IdentificationHandler) Simple(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Path coordinates arrive as strings and must be coerced before any
	// comparison against region coordinates
	x, err := strconv.Atoi(vars["x"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("x must be an integer"))
		return
	}
	y, err := strconv.Atoi(vars["y"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("y must be an integer"))
		return
	}

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

	game, err := h.catalog.GetSimpleGame(r.Context(), model.GameID(vars["gameID"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := h.identify.GenerateResponse(original, modified, model.Coordinate{X: x, Y: y}, game.DifferenceRegions.Regions)
	response.JSON(w, http.StatusOK, resp)
}

// Free handles GET /api/identification/free/{gameID}/{index}
func (h *IdentificationHandler) Free(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("index must be an integer"))
		return
	}

	game, err := h.catalog.GetFreeGame(r.Context(), model.GameID(vars["gameID"]))
	if err != nil {
		WriteError(w, err)
		return
	}

	// The client expects a bare boolean, not a wrapping object
	response.JSON(w, http.StatusOK, h.identify.FreeDifferenceExists(game, index))
}

// readBitmapFile decodes one multipart image field
func readBitmapFile(r *http.Request, field string) (*bitmap.Bitmap, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Sprintf("missing %s file", field))
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return bitmap.New(data)
}
