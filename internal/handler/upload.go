package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/storage"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, body io.Reader) (string, error)
}

// UploadHandler accepts meal images.  A nil Images disables the endpoint.
type UploadHandler struct {
	Images ImageUploader
}

// UploadMealImage serves POST /meals/image with a multipart "image" field.
func (h *UploadHandler) UploadMealImage(c echo.Context) error {
	if h.Images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image uploads are not configured")
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := h.Images.UploadImage(c.Request().Context(), fh.Filename, f)
	if errors.Is(err, storage.ErrUnsupportedImage) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
