// Package respond turns service errors into JSON error responses
package respond

import (
	"errors"
	"fmt"
	"net/http"

	"greanix/footprint-api/internal/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MsgDuplicateEmail = "An account with this email already exists."
	MsgInvalidLogin   = "Invalid email or password."
	MsgInvalidToken   = "Password reset token is invalid or has expired."
	MsgNotFound       = "User not found."
	MsgInternal       = "Internal server error"
	MsgBadBody        = "Invalid request body"
)

// Status maps an error returned by a service to the HTTP status and the message
// shown to the client. Internal causes are never part of the message.
func Status(err error) (int, string) {
	var ve errs.ValidationError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, fmt.Sprintf("%s: %s", ve.Field, ve.Msg)
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, errs.ErrDuplicateKey):
		return http.StatusBadRequest, MsgDuplicateEmail
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusBadRequest, MsgInvalidLogin
	case errors.Is(err, errs.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, MsgInvalidToken
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	}

	return http.StatusInternalServerError, MsgInternal
}

// Error writes the response for err. Server side failures are logged with the
// request ID the client receives.
func Error(c *gin.Context, err error, logMsg string) {
	requestID := c.GetString("requestID")
	status, msg := Status(err)

	if status >= http.StatusInternalServerError {
		zap.L().Error(logMsg, zap.Error(err), zap.String("requestID", requestID))
	} else {
		zap.L().Debug(logMsg, zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(status, gin.H{
		"message":   msg,
		"requestID": requestID,
	})
}

// BadBody is the response to JSON that could not be bound
func BadBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

	c.JSON(http.StatusBadRequest, gin.H{
		"message":   MsgBadBody,
		"requestID": requestID,
	})
}
