package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/presenter"
	"github.com/mrled/suns/msgsvc/internal/validation"
)

// Client-facing error messages
const (
	NotFoundMessage         = "Message Not found"
	InternalErrorMessage    = "internal server error"
	RouteNotFoundMessage    = "not found"
	MethodNotAllowedMessage = "method not allowed"
)

// BadRequestError is a client error reported verbatim with status 400
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// errorResponse maps err onto a status code and JSON body.
// Unrecognized errors become a generic 500 so internal detail never reaches the client.
func errorResponse(err error) (int, any) {
	var fieldErrs validation.FieldErrors
	var badRequest *BadRequestError

	switch {
	case errors.Is(err, validation.ErrEmptyBody):
		return http.StatusBadRequest, presenter.ErrorResponse{Error: validation.EmptyBodyMessage}
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, presenter.FieldErrorsResponse{Errors: fieldErrs}
	case errors.Is(err, model.ErrNotFound):
		// Not-found is reported as 400 for compatibility with existing clients
		return http.StatusBadRequest, presenter.ErrorResponse{Error: NotFoundMessage}
	case errors.As(err, &badRequest):
		return http.StatusBadRequest, presenter.ErrorResponse{Error: badRequest.Message}
	default:
		return http.StatusInternalServerError, presenter.ErrorResponse{Error: InternalErrorMessage}
	}
}

// errorHandler renders the last error a handler attached with c.Error
func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			requestLogger(c).Error("Request failed", slog.String("error", err.Error()))
		}
		c.JSON(status, body)
	}
}

// recovery turns a panic into a logged 500
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c).Error("Panic while handling request", slog.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, presenter.ErrorResponse{Error: InternalErrorMessage})
	})
}

func noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, presenter.ErrorResponse{Error: RouteNotFoundMessage})
}

func noMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, presenter.ErrorResponse{Error: MethodNotAllowedMessage})
}
