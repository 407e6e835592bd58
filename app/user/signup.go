// Package user contains the account endpoints
package user

import (
	"net/http"

	"greanix/footprint-api/app/respond"
	"greanix/footprint-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signupBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserSignup(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	acc, err := d.Accounts.Signup(c.Request.Context(), data.Username, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err, "Failed to create account")
		return
	}

	zap.L().Info("Account created", zap.String("accountID", acc.ID), zap.String("requestID", requestID))

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Account created successfully!",
		"accountId": acc.ID,
	})
}
