package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boycottpro/boycottpro-backend/internal/platform/apierr"
	"github.com/boycottpro/boycottpro-backend/internal/platform/logger"
	"github.com/boycottpro/boycottpro-backend/internal/services"
	"github.com/boycottpro/boycottpro-backend/internal/types"
)

type BoycottHandler struct {
	log            *logger.Logger
	boycottService services.BoycottService
}

func NewBoycottHandler(baseLog *logger.Logger, boycottService services.BoycottService) *BoycottHandler {
	return &BoycottHandler{log: baseLog.With("handler", "BoycottHandler"), boycottService: boycottService}
}

func (bh *BoycottHandler) AddBoycotts(c *gin.Context) {
	var form types.AddBoycottsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}

	result, err := bh.boycottService.AddBoycotts(c.Request.Context(), &form)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			switch ae.Status {
			case http.StatusUnauthorized:
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			case http.StatusBadRequest:
				c.JSON(http.StatusBadRequest, gin.H{"message": ae.Error()})
			default:
				c.JSON(ae.Status, gin.H{"error": "Unexpected server error: " + ae.Error()})
			}
			return
		}
		bh.log.Error("add boycotts failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error: " + err.Error()})
		return
	}

	switch result.Outcome {
	case types.OutcomeAllDuplicate:
		c.JSON(http.StatusConflict, gin.H{"message": "No new boycotts were recorded. Possible duplicates."})
	case types.OutcomePartialSuccess:
		encoded, merr := json.Marshal(result.Errors)
		if merr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error: " + merr.Error()})
			return
		}
		c.JSON(http.StatusMultiStatus, gin.H{"message": "Some boycotts recorded. Errors: " + string(encoded)})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "All boycotts recorded successfully."})
	}
}
