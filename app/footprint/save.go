// Package footprint contains the footprint history endpoints
package footprint

import (
	"net/http"

	"greanix/footprint-api/app/respond"
	"greanix/footprint-api/internal"
	"greanix/footprint-api/internal/model"

	"github.com/gin-gonic/gin"
)

type saveBody struct {
	AccountID      string          `json:"accountId"`
	TotalEmissions *float64        `json:"totalEmissions" binding:"required"`
	Breakdown      model.Breakdown `json:"breakdown"`
}

func FootprintSave(c *gin.Context, d *internal.Deps) {
	var data saveBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	accountID, ok := ownAccount(c, data.AccountID)
	if !ok {
		return
	}

	if _, err := d.Footprints.Submit(c.Request.Context(), accountID, *data.TotalEmissions, data.Breakdown); err != nil {
		respond.Error(c, err, "Failed to save footprint")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Footprint saved successfully!",
	})
}

// ownAccount resolves the account a request acts on. The session's account is
// used when the client sends none, a different one is refused.
func ownAccount(c *gin.Context, requested string) (string, bool) {
	sessionID := c.GetString("accountID")

	if requested != "" && requested != sessionID {
		c.JSON(http.StatusForbidden, gin.H{
			"message":   "You can only access your own account",
			"requestID": c.GetString("requestID"),
		})
		return "", false
	}

	return sessionID, true
}
