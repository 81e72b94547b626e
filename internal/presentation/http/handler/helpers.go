package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/response"
)

// parseUUIDParam reads a uuid path parameter, answering 400 when it is malformed
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}

// parseIndexParam reads the 0-based position of a draft line item
func parseIndexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "Invalid item index")
		return 0, false
	}
	return index, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
