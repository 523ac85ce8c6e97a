package analyzer

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const maxImageBytes = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// analyzeResponse is the fixed envelope of both analyze endpoints: success
// plus a message that is either the extracted event object or, when the model
// output did not parse, the raw text.
type analyzeResponse struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

// AnalyzeImage handles POST /api/analyze/image with a multipart "image" part.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, "Image upload failed: "+err.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, "Image upload failed (missing image field)")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, "Image upload failed: "+err.Error())
		return
	}

	extraction, err := h.service.AnalyzeImage(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			writeAnalyzeError(w, http.StatusBadRequest, "Image upload failed (empty file)")
			return
		}
		writeAnalyzeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExtraction(w, extraction)
}

// AnalyzeText handles POST /api/analyze/text with a {"text": "..."} body.
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	extraction, err := h.service.AnalyzeText(r.Context(), body.Text)
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			writeAnalyzeError(w, http.StatusBadRequest, "Missing required field: text")
			return
		}
		writeAnalyzeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExtraction(w, extraction)
}

func writeExtraction(w http.ResponseWriter, extraction *Extraction) {
	var message any = extraction.Raw
	if extraction.Event != nil {
		message = extraction.Event
	}
	if err := json.NewEncoder(w).Encode(analyzeResponse{Success: true, Message: message}); err != nil {
		log.Errorf("failed to encode analyze response: %v", err)
	}
}

func writeAnalyzeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(analyzeResponse{Success: false, Message: message}); err != nil {
		log.Errorf("failed to encode analyze response: %v", err)
	}
}
