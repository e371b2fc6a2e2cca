package v1

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}

// formFile opens an optional multipart file. A missing field is (nil, nil,
// nil); the caller closes the returned file.
func formFile(c *gin.Context, field string) (*domain.UploadedFile, multipart.File, error) {
	header, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperror.BadRequest("Invalid multipart form")
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, apperror.BadRequest("Failed to read uploaded file")
	}
	return &domain.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     f,
	}, f, nil
}
