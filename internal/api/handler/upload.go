package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// openUpload reads the named multipart file. The returned close func is never nil.
// found is false when the form has no such part.
func openUpload(c echo.Context, field, kind string) (upload ports.Upload, closeFn func(), found bool, err error) {
	closeFn = func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return ports.Upload{}, closeFn, false, nil
		}
		return ports.Upload{}, closeFn, false, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	return openFileHeader(fh, kind)
}

func openFileHeader(fh *multipart.FileHeader, kind string) (ports.Upload, func(), bool, error) {
	f, err := fh.Open()
	if err != nil {
		return ports.Upload{}, func() {}, false, err
	}
	metrics.UploadBytes.WithLabelValues(kind).Observe(float64(fh.Size))
	return ports.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, true, nil
}
