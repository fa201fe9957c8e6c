package recommend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moviehub/internal/auth"
	"moviehub/internal/moviestore"
	"moviehub/pkg/models"
)

// Handler serves POST /recommendations over the stored catalog. When
// the request carries no preferences, the authenticated user's saved
// profile preferences are used instead.
type Handler struct {
	Movies *moviestore.Repo
	Users  *auth.Repo
}

func NewHandler(movies *moviestore.Repo, users *auth.Repo) *Handler {
	return &Handler{Movies: movies, Users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
}

type recommendReq struct {
	Preferences []string `json:"preferences"`
	Limit       int      `json:"limit"`
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	prefs := req.Preferences
	if len(prefs) == 0 {
		if claims := auth.MustGetClaims(c); claims != nil {
			user, err := h.Users.GetByID(c.Request.Context(), claims.UserID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "profile lookup failed"})
				return
			}
			if user != nil {
				prefs = user.Preferences
			}
		}
	}

	catalog, err := h.Movies.List(c.Request.Context(), moviestore.ListQuery{Limit: 500})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog load failed"})
		return
	}

	ranked := Rank(catalog, prefs, req.Limit)
	if ranked == nil {
		ranked = []models.Movie{}
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": ranked})
}
