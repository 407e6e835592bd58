package footprint

import (
	"net/http"

	"greanix/footprint-api/app/respond"
	"greanix/footprint-api/internal"

	"github.com/gin-gonic/gin"
)

func FootprintHistory(c *gin.Context, d *internal.Deps) {
	accountID, ok := ownAccount(c, c.Param("accountId"))
	if !ok {
		return
	}

	h, err := d.Footprints.History(c.Request.Context(), accountID)
	if err != nil {
		respond.Error(c, err, "Failed to fetch footprint history")
		return
	}

	c.JSON(http.StatusOK, h)
}
