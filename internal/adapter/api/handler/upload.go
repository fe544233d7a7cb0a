package handler

import (
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
)

// formUpload pairs a MediaUpload with the open multipart file so handlers can
// close it after the use case consumed the reader.
type formUpload struct {
	usecase.MediaUpload
	file multipart.File
}

func (u *formUpload) close() {
	if u.file != nil {
		u.file.Close()
	}
}

func uploadFromForm(c echo.Context, field string) (*formUpload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, errors.BadRequest("File is required", err)
	}

	return uploadFromHeader(fileHeader)
}

func uploadFromHeader(fileHeader *multipart.FileHeader) (*formUpload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.Internal("Failed to read uploaded file", err)
	}

	return &formUpload{
		MediaUpload: usecase.MediaUpload{
			Reader:      file,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
		},
		file: file,
	}, nil
}
