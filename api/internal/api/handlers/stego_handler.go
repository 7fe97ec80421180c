package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/irgordon/stegocrypt/api/internal/core/domain"
)

// Use a single instance of Validate, it caches struct info
var validate = validator.New()

// ==============================================================================
// 1. Request Payloads (Input Validation)
// ==============================================================================

type imageUpload struct {
	ImageType string `validate:"required,oneof=image/png image/bmp image/jpeg image/jpg"`
	Image     []byte `validate:"required,min=1"`
}

type encodeRequest struct {
	imageUpload
	Message  *string `validate:"required"`
	Password string
}

type decodeRequest struct {
	imageUpload
	Password string
}

// ==============================================================================
// 2. The Handler Struct (Dependency Injection)
// ==============================================================================

type StegoHandler struct {
	Service        domain.StegoService
	MaxUploadBytes int64
}

func NewStegoHandler(service domain.StegoService, maxUploadBytes int64) *StegoHandler {
	return &StegoHandler{
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

// ==============================================================================
// 3. HTTP Methods
// ==============================================================================

// Info handles GET /
func (h *StegoHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "StegoCrypt API",
		"version":     "1.0.0",
		"description": "Image Steganography with AES-256 Encryption",
		"endpoints": map[string]string{
			"encode":   "/encode",
			"decode":   "/decode",
			"capacity": "/capacity",
		},
	})
}

// Capacity handles POST /capacity
func (h *StegoHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	form, err := readUploadForm(r, h.MaxUploadBytes)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	req := imageUpload{ImageType: form.ImageType, Image: form.Image}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	capacity, err := h.Service.Capacity(r.Context(), req.Image)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"capacity": capacity,
	})
}

// Encode handles POST /encode and streams back the stego PNG as an attachment.
func (h *StegoHandler) Encode(w http.ResponseWriter, r *http.Request) {
	form, err := readUploadForm(r, h.MaxUploadBytes)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	req := encodeRequest{
		imageUpload: imageUpload{ImageType: form.ImageType, Image: form.Image},
		Message:     form.Message,
		Password:    form.Password,
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	result, err := h.Service.Encode(r.Context(), req.Image, *req.Message, req.Password)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	encrypted := "False"
	if result.Encrypted {
		encrypted = "True"
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="stego_%s.png"`, uuid.NewString()))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Image)))
	w.Header().Set("X-Capacity-Used", strconv.FormatFloat(result.CapacityUsed, 'f', -1, 64))
	w.Header().Set("X-Encryption-Used", encrypted)
	w.Header().Set("X-Message-Size", strconv.Itoa(result.MessageSize))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Image)
}

// Decode handles POST /decode
func (h *StegoHandler) Decode(w http.ResponseWriter, r *http.Request) {
	form, err := readUploadForm(r, h.MaxUploadBytes)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	req := decodeRequest{
		imageUpload: imageUpload{ImageType: form.ImageType, Image: form.Image},
		Password:    form.Password,
	}
	if err := validate.Struct(req); err != nil {
		HandleError(w, r, err)
		return
	}

	result, err := h.Service.Decode(r.Context(), req.Image, req.Password)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         result.Message,
		"decryption_used": result.Decrypted,
		"message_length":  result.MessageLength,
	})
}
