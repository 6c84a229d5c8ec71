package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"libraryhub/internal/library"
	"libraryhub/internal/microservices/http-api/dto"
	"libraryhub/internal/microservices/http-api/service"
)

// Error kinds reported next to the message. Business rejections use their
// own kind (INSUFFICIENT_QUANTITY and so on).
const (
	KindNotFound       = "NOT_FOUND"
	KindConflict       = "CONFLICT"
	KindValidation     = "VALIDATION_ERROR"
	KindDatabase       = "DATABASE_ERROR"
	KindInconsistent   = "INVENTORY_INCONSISTENT"
	KindUnauthorized   = "UNAUTHORIZED"
	KindInternal       = "INTERNAL_ERROR"
	badCredentialsText = "Bad credentials or user is not active"
)

func abortWith(c *gin.Context, status int, kind, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg, Kind: kind})
}

func writeRejection(c *gin.Context, r *library.Rejection) {
	abortWith(c, http.StatusBadRequest, string(r.Kind), r.Detail)
}

func writeBindError(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, KindValidation, err.Error())
}

// writeError maps service and workflow errors onto a status code. Unknown
// errors are logged and reported without detail.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var notFound *service.NotFoundError
	switch {
	case errors.As(err, &notFound):
		abortWith(c, http.StatusNotFound, KindNotFound, notFound.Error())
	case errors.Is(err, service.ErrUserNotFound):
		abortWith(c, http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, service.ErrBookExists),
		errors.Is(err, service.ErrReaderExists),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrDiscrepancyResolved):
		abortWith(c, http.StatusConflict, KindConflict, err.Error())
	case errors.Is(err, service.ErrPublishedInFuture),
		errors.Is(err, service.ErrPublishedTooEarly),
		errors.Is(err, service.ErrInvalidBook),
		errors.Is(err, service.ErrInvalidReader),
		errors.Is(err, service.ErrNegativeQuantity),
		errors.Is(err, service.ErrInvalidRole):
		abortWith(c, http.StatusBadRequest, KindValidation, err.Error())
	case errors.Is(err, library.ErrInventoryInconsistent):
		logger.Error("request left inventory inconsistent", "path", c.FullPath(), "error", err)
		abortWith(c, http.StatusInternalServerError, KindInconsistent, err.Error())
	case errors.Is(err, library.ErrDatabase):
		logger.Error("storage failure", "path", c.FullPath(), "error", err)
		abortWith(c, http.StatusInternalServerError, KindDatabase, library.ErrDatabase.Error())
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		abortWith(c, http.StatusInternalServerError, KindInternal, "internal server error")
	}
}

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		abortWith(c, http.StatusBadRequest, KindValidation, "invalid "+name)
		return 0, false
	}
	return id, true
}
