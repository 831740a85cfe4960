package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"mediscanner/internal/imagekit"
)

const uploadFolder = "/medical-prescriptions"

// maxUploadBytes caps server-side image uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// MediaHandler handles image-store endpoints.
type MediaHandler struct {
	imagekit *imagekit.Client
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(client *imagekit.Client) *MediaHandler {
	return &MediaHandler{imagekit: client}
}

// AuthParams godoc
// @Summary Signed parameters for client-side ImageKit uploads
// @Tags media
// @Produce json
// @Security BearerAuth
// @Success 200 {object} imagekit.AuthParams
// @Router /imagekit/auth [get]
func (h *MediaHandler) AuthParams(c echo.Context) error {
	return c.JSON(http.StatusOK, h.imagekit.AuthParams())
}

// Upload godoc
// @Summary Server-side upload of an image to ImageKit
// @Tags media
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} imagekit.UploadResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /imagekit/upload [post]
func (h *MediaHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}
	if fileHeader.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	result, err := h.imagekit.Upload(c.Request().Context(), data, fileHeader.Filename, uploadFolder)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "image upload failed")
	}
	return c.JSON(http.StatusOK, result)
}
