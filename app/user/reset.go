package user

import (
	"net/http"

	"greanix/footprint-api/app/respond"
	"greanix/footprint-api/internal"

	"github.com/gin-gonic/gin"
)

const resetAck = "If a user with that email exists, a reset link has been sent."

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserRequestReset answers the same way whether or not the email is registered
func UserRequestReset(c *gin.Context, d *internal.Deps) {
	var data resetRequestBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	d.Accounts.RequestPasswordReset(c.Request.Context(), data.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": resetAck,
	})
}

func UserResetPassword(c *gin.Context, d *internal.Deps) {
	var data resetBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	if err := d.Accounts.ResetPassword(c.Request.Context(), data.Token, data.Password); err != nil {
		respond.Error(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been successfully reset.",
	})
}
