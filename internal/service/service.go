package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/broker"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// internalError hides persistence details from clients while keeping the
// cause for logs.
func internalError(cause error) error {
	return apperr.Wrap(apperr.Internal, "internal server error", cause)
}

func missingFields(fields []string) error {
	return apperr.New(apperr.MissingField, fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")))
}

func invalidInput(format string, args ...interface{}) error {
	return apperr.New(apperr.InvalidInput, fmt.Sprintf(format, args...))
}

// releaseFile removes a stored upload. Failures are logged and swallowed:
// a stray file never fails the request that orphaned it.
func releaseFile(files storage.FileStore, ref string) {
	if files == nil || ref == "" {
		return
	}
	if err := files.Remove(ref); err != nil {
		logger.Log.Warn("Failed to remove stored file",
			zap.String("file", ref),
			zap.Error(err),
		)
	}
}

// publish emits a domain event after a committed write. Delivery failures
// are logged and never surface to the caller.
func publish(ctx context.Context, events broker.EventPublisher, eventType, key string, data interface{}) {
	if events == nil {
		return
	}

	event, err := broker.NewEvent(eventType, key, data)
	if err == nil {
		err = events.Publish(ctx, event)
	}
	if err != nil {
		logger.Log.Warn("Failed to publish event",
			zap.String("event", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
