package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// FileStore is the interface the handler uses to persist uploaded content.
type FileStore interface {
	// Save stores the content under a generated unique name derived from the
	// original filename's extension and returns the public URL.
	Save(originalFilename string, content io.Reader) (string, error)
}

// FileHandler handles image uploads for sweets.
type FileHandler struct {
	store FileStore
}

func NewFileHandler(store FileStore) *FileHandler {
	return &FileHandler{store: store}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/files/upload: multipart field "file".
//
// @Summary      Upload a file
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to upload"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Router       /files/upload [post]
func (h *FileHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "please select a file to upload")
	}
	if fileHeader.Size == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "please select a file to upload")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	defer src.Close()

	url, err := h.store.Save(fileHeader.Filename, src)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, uploadResponse{URL: url})
}
