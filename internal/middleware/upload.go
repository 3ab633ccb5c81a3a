package middleware

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"plan-marketplace/internal/client"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	uploadsKey    = "uploads"
	maxUploadSize = 50 << 20
)

type Uploaded struct {
	Field       string `json:"field"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Upload streams the multipart files of the given form fields to the
// object store. Handlers read the results with Uploads.
func Upload(store client.ObjectStore, fields ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			form, err := c.MultipartForm()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
			}

			ctx := c.Request().Context()
			uploads := make(map[string][]Uploaded, len(fields))
			for _, field := range fields {
				for _, fh := range form.File[field] {
					if fh.Size > maxUploadSize {
						return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds upload limit", fh.Filename))
					}

					f, err := fh.Open()
					if err != nil {
						return fmt.Errorf("open upload %s: %w", fh.Filename, err)
					}

					key := UploadKey(field, fh.Filename)
					contentType := fh.Header.Get(echo.HeaderContentType)
					if contentType == "" {
						contentType = echo.MIMEOctetStream
					}
					url, err := store.Put(ctx, key, f, fh.Size, contentType)
					f.Close()
					if err != nil {
						return fmt.Errorf("store upload %s: %w", fh.Filename, err)
					}

					uploads[field] = append(uploads[field], Uploaded{
						Field:       field,
						Name:        fh.Filename,
						Key:         key,
						URL:         url,
						ContentType: contentType,
						Size:        fh.Size,
					})
				}
			}

			c.Set(uploadsKey, uploads)
			return next(c)
		}
	}
}

// UploadKey is uploads/<field>/<uuid><ext>; the original name only
// contributes its extension.
func UploadKey(field, filename string) string {
	return fmt.Sprintf("uploads/%s/%s%s", field, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
}

func Uploads(c echo.Context) map[string][]Uploaded {
	uploads, _ := c.Get(uploadsKey).(map[string][]Uploaded)
	return uploads
}
