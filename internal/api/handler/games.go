package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/christophe-asselin/7-differences/internal/api/request"
	"github.com/christophe-asselin/7-differences/internal/api/response"
	"github.com/christophe-asselin/7-differences/internal/bitmap"
	"github.com/christophe-asselin/7-differences/internal/model"
	"github.com/christophe-asselin/7-differences/internal/services/catalog"
	"github.com/christophe-asselin/7-differences/internal/services/diffgen"
	"github.com/christophe-asselin/7-differences/internal/services/validation"
)

// GamesHandler handles game catalog endpoints
type GamesHandler struct {
	catalog    *catalog.Service
	diffgen    *diffgen.Service
	validation *validation.Service
}

// NewGamesHandler creates a games handler
func NewGamesHandler(catalog *catalog.Service, diffgen *diffgen.Service, validation *validation.Service) *GamesHandler {
	return &GamesHandler{
		catalog:    catalog,
		diffgen:    diffgen,
		validation: validation,
	}
}

// List handles GET /api/games
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	simple, err := h.catalog.ListSimpleGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	free, err := h.catalog.ListFreeGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameLists{
		SimpleGames: simple,
		FreeGames:   free,
	})
}

// GetSimple handles GET /api/games/simple/{gameID}
func (h *GamesHandler) GetSimple(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalog.GetSimpleGame(r.Context(), model.GameID(mux.Vars(r)["gameID"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, game)
}

// GetFree handles GET /api/games/free/{gameID}
func (h *GamesHandler) GetFree(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalog.GetFreeGame(r.Context(), model.GameID(mux.Vars(r)["gameID"]))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, game)
}

// CreateSimple handles POST /api/games/simple: a multipart form with the
// game name and both images. The pair is accepted only when the diff mask
// partitions into exactly seven regions; the regions are persisted with the
// game for click identification.
func (h *GamesHandler) CreateSimple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteError(w, NewInvalidRequestError("expected a multipart form with both images"))
		return
	}

	name := r.FormValue(request.FieldName)
	if name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
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
	if !result.Valid {
		WriteError(w, fmt.Errorf("%w: %s", model.ErrInvalidRegionCount, result.Message))
		return
	}

	game, err := h.catalog.CreateSimpleGame(r.Context(), name,
		imageDataURI(original), imageDataURI(modified), result.Regions)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameCreated{ID: game.ID, Name: game.Name})
}

// CreateFree handles POST /api/games/free
func (h *GamesHandler) CreateFree(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFreeGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	game, err := h.catalog.CreateFreeGame(r.Context(), req.Name, req.OriginalImageURL, req.OriginalObjects, req.ModifiedObjects)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameCreated{ID: game.ID, Name: game.Name})
}

// Delete handles DELETE /api/games/{gameType}/{gameID}
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	gameType := model.GameType(vars["gameType"])
	if gameType != model.GameTypeSimple && gameType != model.GameTypeFree {
		WriteError(w, NewInvalidRequestError("unknown game type"))
		return
	}

	if err := h.catalog.Remove(r.Context(), model.GameID(vars["gameID"]), gameType); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ResetScores handles POST /api/games/{gameType}/{gameID}/reset-scores
func (h *GamesHandler) ResetScores(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	gameType := model.GameType(vars["gameType"])
	if gameType != model.GameTypeSimple && gameType != model.GameTypeFree {
		WriteError(w, NewInvalidRequestError("unknown game type"))
		return
	}

	if err := h.catalog.ResetScores(r.Context(), model.GameID(vars["gameID"]), gameType); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// imageDataURI serializes a bitmap to a self-contained data URI, so game
// records carry their images without an asset store.
func imageDataURI(b *bitmap.Bitmap) string {
	return "data:image/bmp;base64," + base64.StdEncoding.EncodeToString(b.Bytes())
}
