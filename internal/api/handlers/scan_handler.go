package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/herballink/herballink-be/internal/auth"
	"github.com/herballink/herballink-be/internal/knowledge"
	"github.com/herballink/herballink-be/internal/models"
	"github.com/herballink/herballink-be/internal/services"
	"github.com/herballink/herballink-be/internal/uploads"
	"github.com/rs/zerolog/log"
)

// maxUploadSize caps multipart form memory for prediction uploads.
const maxUploadSize = 10 << 20 // 10 MB

// ImageClassifier is the inference surface the scan handler depends on.
type ImageClassifier interface {
	ClassifyLeaf(path string) (string, float64, error)
	ClassifySkin(path string) (string, float64, error)
}

// ScanHandler handles the two prediction endpoints and the history listing.
type ScanHandler struct {
	classifier ImageClassifier
	scans      services.ScanServiceProvider
	store      *uploads.Store
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(classifier ImageClassifier, scans services.ScanServiceProvider, store *uploads.Store) *ScanHandler {
	return &ScanHandler{classifier: classifier, scans: scans, store: store}
}

// LeafResult is the JSON response of the leaf prediction endpoint.
type LeafResult struct {
	LeafName   string   `json:"leaf_name"`
	Uses       string   `json:"uses"`
	Diseases   []string `json:"diseases"`
	Confidence float64  `json:"confidence"`
}

// SkinResult is the JSON response of the skin prediction endpoint.
type SkinResult struct {
	PredictedClass string  `json:"predicted_class"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// PredictLeaf accepts a multipart leaf image, runs the leaf model and logs
// the scan. Disallowed files are rejected before anything is saved or
// logged.
func (h *ScanHandler) PredictLeaf(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no file")
		return
	}
	defer file.Close()

	if header.Filename == "" || !uploads.Allowed(header.Filename) {
		writeJSONError(w, http.StatusBadRequest, "invalid file")
		return
	}

	savedName, path, err := h.store.Save(file, header.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to save leaf upload")
		http.Error(w, "Failed to save upload", http.StatusInternalServerError)
		return
	}

	leafName, conf, err := h.classifier.ClassifyLeaf(path)
	if err != nil {
		log.Error().Err(err).Str("saved_name", savedName).Msg("Leaf classification failed")
		http.Error(w, "Classification failed", http.StatusInternalServerError)
		return
	}

	info := knowledge.LeafLookup(leafName)
	entry := models.ScanRecord{
		Type:       models.ScanTypeLeaf,
		UserEmail:  sessionEmail(r),
		Label:      leafName,
		Confidence: conf,
		Uses:       info.Uses,
		Diseases:   info.Diseases,
		Filename:   header.Filename,
		SavedName:  savedName,
	}
	if _, err := h.scans.Record(entry); err != nil {
		log.Error().Err(err).Str("saved_name", savedName).Msg("Failed to record leaf scan")
		http.Error(w, "Failed to record scan", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LeafResult{
		LeafName:   leafName,
		Uses:       info.Uses,
		Diseases:   info.Diseases,
		Confidence: conf,
	})
}

// PredictSkin accepts a multipart skin image, runs the skin model and logs
// the scan. A request without a file gets a placeholder result rather than
// an error.
func (h *ScanHandler) PredictSkin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusOK, SkinResult{
			PredictedClass: "No image",
			Confidence:     0.0,
			Recommendation: "N/A",
		})
		return
	}
	defer file.Close()

	if header.Filename == "" || !uploads.Allowed(header.Filename) {
		writeJSONError(w, http.StatusBadRequest, "invalid file")
		return
	}

	savedName, path, err := h.store.Save(file, header.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to save skin upload")
		http.Error(w, "Failed to save upload", http.StatusInternalServerError)
		return
	}

	predClass, conf, err := h.classifier.ClassifySkin(path)
	if err != nil {
		log.Error().Err(err).Str("saved_name", savedName).Msg("Skin classification failed")
		http.Error(w, "Classification failed", http.StatusInternalServerError)
		return
	}

	rec := knowledge.Recommendation(predClass)
	entry := models.ScanRecord{
		Type:           models.ScanTypeSkin,
		UserEmail:      sessionEmail(r),
		Label:          predClass,
		Confidence:     conf,
		Recommendation: rec,
		Filename:       header.Filename,
		SavedName:      savedName,
	}
	if _, err := h.scans.Record(entry); err != nil {
		log.Error().Err(err).Str("saved_name", savedName).Msg("Failed to record skin scan")
		http.Error(w, "Failed to record scan", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, SkinResult{
		PredictedClass: predClass,
		Confidence:     conf,
		Recommendation: rec,
	})
}

// GetScans lists the most recent scan records, newest first.
func (h *ScanHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	records, err := h.scans.ListRecent(services.DefaultScanLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve scans")
		http.Error(w, "Failed to retrieve scans", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func sessionEmail(r *http.Request) string {
	if claims, ok := auth.FromContext(r.Context()); ok {
		return claims.Email
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
