package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes {"error": message} with the status of the error kind.
// Internal errors are logged with their cause and reported generically.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.Log.Error("Request failed with internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(kind.HTTPStatus(), gin.H{
		"error": apperr.Message(err),
	})
}

// bind decodes JSON or form bodies depending on the content type. An empty
// body leaves obj untouched.
func bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.InvalidInput, "Invalid request body", err)
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// saveUpload stores the file sent under field, if any, and returns its
// reference. Requests without a file yield an empty reference.
func saveUpload(c *gin.Context, files storage.FileStore, profile storage.Profile, field string) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}

	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	ref, err := files.Save(profile, fh)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
			return "", apperr.Wrap(apperr.InvalidInput, err.Error(), err)
		}
		return "", apperr.Wrap(apperr.Internal, "failed to store upload", err)
	}

	logger.Log.Debug("Upload stored",
		zap.String("field", field),
		zap.String("file", ref),
		zap.Int64("size", fh.Size),
	)

	return ref, nil
}
