package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/middleware"
	"github.com/modelmeter/modelmeter/internal/service"
)

type ModelHandler struct {
	trainingService   *service.TrainingService
	predictionService *service.PredictionService
}

func NewModelHandler(trainingService *service.TrainingService, predictionService *service.PredictionService) *ModelHandler {
	return &ModelHandler{
		trainingService:   trainingService,
		predictionService: predictionService,
	}
}

// MeteredRoutes are the paid operations; they require authentication.
func (h *ModelHandler) MeteredRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/train", h.Train)
	r.Post("/predict/{modelName}", h.Predict)

	return r
}

// POST /train
func (h *ModelHandler) Train(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetIdentity(r.Context())
	if email == "" {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	var req struct {
		ModelName string   `json:"modelName"`
		Algorithm string   `json:"algorithm"`
		Features  []string `json:"features"`
		Label     string   `json:"label"`
		K         int      `json:"k"`
		CSV       string   `json:"csv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}
	if req.CSV == "" {
		writeError(w, apperrors.MissingRequired("csv"))
		return
	}

	record, balance, err := h.trainingService.Train(r.Context(), email, service.TrainParams{
		ModelName:    req.ModelName,
		Algorithm:    req.Algorithm,
		FeatureNames: req.Features,
		LabelName:    req.Label,
		KNNNeighbors: req.K,
		Data:         strings.NewReader(req.CSV),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "OK",
		"model":    record.Name,
		"features": []string(record.FeatureNames),
		"label":    record.LabelName,
		"tokens":   balance,
	})
}

// POST /predict/{modelName}
func (h *ModelHandler) Predict(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetIdentity(r.Context())
	if email == "" {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	modelName := chi.URLParam(r, "modelName")

	var req struct {
		Features map[string]float64 `json:"features"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	prediction, balance, err := h.predictionService.Predict(r.Context(), email, modelName, req.Features)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "OK",
		"model":      modelName,
		"prediction": prediction,
		"tokens":     balance,
	})
}

// GET /models
func (h *ModelHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	records, err := h.trainingService.ListModels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"models": records,
	})
}
