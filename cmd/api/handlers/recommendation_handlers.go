package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishalm342/ShelfSense/cmd/api/middleware"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
)

// GetRecommendationsHandler godoc
// @Summary      Personalized book recommendations
// @Description  Build a taste profile from the user's library and generate recommendations. Always responds 200; degraded outcomes carry a source of Genre-based, Failed or Error with an explanatory message.
// @Tags         recommendations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  recommender.Result
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /recommendations [get]
func GetRecommendationsHandler(recSvc *services.RecommendationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := recSvc.RecommendationsForUser(c.Request.Context(), middleware.UserID(c))
		c.JSON(http.StatusOK, result)
	}
}
