package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/readnwin/reader/internal/database"
	"github.com/readnwin/reader/internal/logger"
	"github.com/readnwin/reader/internal/readerapi"
)

const (
	// ContextKeyUserID holds the reader identity resolved from the request.
	ContextKeyUserID = "user_id"

	headerRequestID = "X-Request-ID"
)

// ErrorResponse is the error envelope of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserMiddleware resolves the user from the identity cookie, falling back to
// defaultUserID. The cookie is trusted as is.
func UserMiddleware(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := defaultUserID
		if v, err := c.Cookie(readerapi.UserCookieName); err == nil && v != "" {
			userID = v
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the user resolved by UserMiddleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(headerRequestID, reqID)

		c.Next()

		log.Info("http_request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int("bytes", c.Writer.Size()),
			logger.Duration("duration", time.Since(start)),
			logger.String("remote_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
			logger.String("request_id", reqID),
		)
	}
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The error
// itself is not exposed to the client.
func respondInternalError(c *gin.Context, log logger.Logger, err error, context string) {
	log.Error("internal error", logger.String("context", context), logger.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStoreError maps a repository error to 404 or 500.
func respondStoreError(c *gin.Context, log logger.Logger, err error, resource string) {
	if errors.Is(err, database.ErrNotFound) {
		respondNotFound(c, resource)
		return
	}
	respondInternalError(c, log, err, resource)
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
