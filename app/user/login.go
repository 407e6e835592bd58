package user

import (
	"net/http"

	"greanix/footprint-api/app/respond"
	"greanix/footprint-api/internal"
	"greanix/footprint-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   respond.MsgBadBody,
			"requestID": requestID,
		})
		return
	}

	acc, err := d.Accounts.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		status, msg := respond.Status(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("Failed to log in", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(status, gin.H{
			"success":   false,
			"message":   msg,
			"requestID": requestID,
		})
		return
	}

	authToken, err := d.Sessions.Issue(acc.ID)
	if err != nil {
		respond.Error(c, err, "Failed to generate session token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, authToken, int(d.Sessions.TTL().Seconds()), "/", "", d.SecureCookies, true)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"accountId": acc.ID,
		"token":     authToken,
	})
}
