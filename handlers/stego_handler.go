// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pixel-steganography/carrier"
	"pixel-steganography/compression"
	"pixel-steganography/imaging"
	"pixel-steganography/models"
	"pixel-steganography/observability"
	"pixel-steganography/stego"
)

type StegoHandler struct {
	codec        *stego.Codec
	logger       zerolog.Logger
	outputFormat string
	maxUpload    int64
}

func NewStegoHandler(logger zerolog.Logger, outputFormat string, maxUpload int64) *StegoHandler {
	return &StegoHandler{
		codec:        stego.NewCodec(logger),
		logger:       logger,
		outputFormat: outputFormat,
		maxUpload:    maxUpload,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Steganography API is running",
		"version": "1.0.0",
	})
}

func (h *StegoHandler) InsertFile(c *gin.Context) {
	if !h.parseForm(c, "insert") {
		return
	}

	coverData, coverHeader, err := readFormFile(c, "cover_file")
	if err != nil {
		h.fail(c, "insert", http.StatusBadRequest, "invalid_form", "Cover file is required")
		return
	}
	secretData, secretHeader, err := readFormFile(c, "secret_file")
	if err != nil {
		h.fail(c, "insert", http.StatusBadRequest, "invalid_form", "Secret file is required")
		return
	}

	cover, err := carrier.Load(coverHeader.Filename, coverData)
	if err != nil {
		h.failErr(c, "insert", err)
		return
	}
	// A second, untouched copy is kept for the PSNR comparison.
	original, err := carrier.Load(coverHeader.Filename, coverData)
	if err != nil {
		h.failErr(c, "insert", err)
		return
	}

	cfg := h.insertConfig(c)
	format, err := cover.OutputFormat(cfg.OutputFormat)
	if err != nil {
		h.failErr(c, "insert", err)
		return
	}

	payload := models.Payload{
		FileName: filepath.Base(secretHeader.Filename),
		Data:     secretData,
	}
	if cfg.Compress {
		if payload, err = compression.Compress(payload); err != nil {
			h.failErr(c, "insert", err)
			return
		}
	}

	capacity := cover.Capacity(payload.FileName)
	if len(payload.Data) > capacity {
		h.fail(c, "insert", http.StatusBadRequest, "capacity",
			fmt.Sprintf("Secret data too large. Maximum capacity: %d bytes, required: %d bytes", capacity, len(payload.Data)))
		return
	}
	symbols, err := stego.RequiredSymbols(payload)
	if err != nil {
		h.failErr(c, "insert", err)
		return
	}

	if err := h.codec.Encode(cover.Surface, payload); err != nil {
		h.failErr(c, "insert", err)
		return
	}

	stegoData, err := cover.Encode(format)
	if err != nil {
		h.failErr(c, "insert", err)
		return
	}
	psnr := imaging.CalculatePSNR(original.Surface, cover.Surface)

	baseFilename := strings.TrimSuffix(coverHeader.Filename, filepath.Ext(coverHeader.Filename))
	outputFilename := fmt.Sprintf("%s_stego.%s", filepath.Base(baseFilename), format)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))
	c.Header("Content-Length", strconv.Itoa(len(stegoData)))

	c.Header("X-Stego-Method", "RGB 2-bit LSB")
	c.Header("X-Stego-Message", "Secret file successfully embedded")
	c.Header("X-Stego-PSNR", strconv.FormatFloat(psnr, 'f', 2, 64))
	c.Header("X-Stego-Capacity", strconv.Itoa(capacity))
	c.Header("X-Stego-Symbols", strconv.Itoa(symbols))

	h.logger.Info().
		Str("cover", coverHeader.Filename).
		Str("secret", payload.FileName).
		Int("bytes", len(payload.Data)).
		Int("symbols", symbols).
		Float64("psnr", psnr).
		Msg("file embedded")
	observability.RecordStegoOperation("insert", "ok", len(payload.Data))

	c.Data(http.StatusOK, carrier.ContentType(format), stegoData)
}

func (h *StegoHandler) ExtractFile(c *gin.Context) {
	if !h.parseForm(c, "extract") {
		return
	}

	stegoData, stegoHeader, err := readFormFile(c, "stego_file")
	if err != nil {
		h.fail(c, "extract", http.StatusBadRequest, "invalid_form", "Stego file is required")
		return
	}

	cover, err := carrier.Load(stegoHeader.Filename, stegoData)
	if err != nil {
		h.failErr(c, "extract", err)
		return
	}

	payload, err := h.codec.Decode(cover.Surface)
	if err != nil {
		h.failErr(c, "extract", err)
		return
	}
	if extractConfig(c).Decompress {
		if payload, err = compression.Decompress(payload); err != nil {
			h.failErr(c, "extract", err)
			return
		}
	}

	name, ok := payload.SafeFileName()
	if !ok {
		h.failErr(c, "extract", fmt.Errorf("embedded file name %q is not usable: %w", payload.FileName, stego.ErrMalformedFrame))
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Length", strconv.Itoa(len(payload.Data)))
	c.Header("X-Stego-Filename", name)

	h.logger.Info().
		Str("carrier", stegoHeader.Filename).
		Str("secret", name).
		Int("bytes", len(payload.Data)).
		Msg("file extracted")
	observability.RecordStegoOperation("extract", "ok", len(payload.Data))

	c.Data(http.StatusOK, "application/octet-stream", payload.Data)
}

func (h *StegoHandler) Capacity(c *gin.Context) {
	if !h.parseForm(c, "capacity") {
		return
	}
	coverData, coverHeader, err := readFormFile(c, "cover_file")
	if err != nil {
		h.fail(c, "capacity", http.StatusBadRequest, "invalid_form", "Cover file is required")
		return
	}
	cover, err := carrier.Load(coverHeader.Filename, coverData)
	if err != nil {
		h.failErr(c, "capacity", err)
		return
	}

	c.JSON(http.StatusOK, models.CapacityResponse{
		Success:       true,
		Format:        cover.Metadata.Format,
		Width:         cover.Metadata.Width,
		Height:        cover.Metadata.Height,
		Pixels:        cover.Metadata.Pixels(),
		CapacityBytes: cover.Capacity(c.PostForm("secret_filename")),
	})
}

func (h *StegoHandler) insertConfig(c *gin.Context) models.StegoConfig {
	cfg := models.StegoConfig{
		OutputFormat: c.PostForm("format"),
		Compress:     formBool(c, "compress"),
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = h.outputFormat
	}
	return cfg
}

func extractConfig(c *gin.Context) models.ExtractConfig {
	return models.ExtractConfig{Decompress: formBool(c, "decompress")}
}

func formBool(c *gin.Context, field string) bool {
	v, err := strconv.ParseBool(c.PostForm(field))
	return err == nil && v
}

// parseForm reads the multipart body, rejecting requests larger than the
// configured upload limit with 413.
func (h *StegoHandler) parseForm(c *gin.Context, operation string) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	err := c.Request.ParseMultipartForm(h.maxUpload)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.fail(c, operation, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("Upload exceeds the %d byte limit", tooLarge.Limit))
		return false
	}
	h.fail(c, operation, http.StatusBadRequest, "invalid_form", fmt.Sprintf("Failed to parse form: %v", err))
	return false
}

func readFormFile(c *gin.Context, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}

func (h *StegoHandler) fail(c *gin.Context, operation string, status int, kind, message string) {
	observability.RecordStegoOperation(operation, kind, 0)
	c.JSON(status, models.StegoResponse{
		Success: false,
		Message: message,
	})
}

func (h *StegoHandler) failErr(c *gin.Context, operation string, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("operation", operation).Msg("stego request failed")
	}
	h.fail(c, operation, status, kind, err.Error())
}

// classify maps an error to an HTTP status and a metrics label.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, stego.ErrCapacityExceeded):
		return http.StatusBadRequest, "capacity"
	case errors.Is(err, stego.ErrMalformedFrame), errors.Is(err, compression.ErrCorrupt):
		return http.StatusBadRequest, "malformed"
	case errors.Is(err, stego.ErrRange):
		return http.StatusBadRequest, "range"
	case errors.Is(err, carrier.ErrUnsupportedCarrier), errors.Is(err, imaging.ErrUnsupportedFormat):
		return http.StatusBadRequest, "unsupported"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
