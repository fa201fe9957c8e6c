package reviews

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"moviehub/internal/auth"
	"moviehub/internal/events"
	"moviehub/internal/ledger"
	"moviehub/internal/moviestore"
)

// Handler exposes the rating and review endpoints on top of the
// shared ledger. Movie existence is checked against the catalog
// before anything is written.
type Handler struct {
	Ledger ledger.Ledger
	Movies *moviestore.Repo
	Hub    *events.Hub
}

func NewHandler(led ledger.Ledger, movies *moviestore.Repo, hub *events.Hub) *Handler {
	return &Handler{Ledger: led, Movies: movies, Hub: hub}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/movies/:id/reviews", h.listByMovie)
	rg.GET("/movies/:id/rating", h.averageRating)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/rate", h.rate)
	rg.POST("/reviews", h.createReview)
	rg.GET("/movies/:id/my-rating", h.myRating)
}

type rateReq struct {
	MovieID string `json:"movie_id"`
	Rating  int    `json:"rating"`
}

func (h *Handler) rate(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	if err := ledger.ValidateRating(req.Rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}

	movie, err := h.Movies.GetByID(c.Request.Context(), movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if movie == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}

	if err := h.Ledger.UpsertRating(c.Request.Context(), movieID, claims.UserID, req.Rating); err != nil {
		log.Printf("[reviews] upsert rating %s/%s: %v", movieID, claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating failed"})
		return
	}

	avg, _ := h.Ledger.AverageRating(c.Request.Context(), movieID, movie.Rating)
	h.publish(events.Event{
		Type:    events.TypeRatingSubmitted,
		MovieID: movieID,
		UserID:  claims.UserID,
		Rating:  req.Rating,
	})

	c.JSON(http.StatusOK, gin.H{
		"movie_id":       movieID,
		"rating":         req.Rating,
		"average_rating": avg,
	})
}

type createReviewReq struct {
	MovieID string `json:"movie_id"`
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
}

func (h *Handler) createReview(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	if err := ledger.ValidateRating(req.Rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	if err := ledger.ValidateReview(req.Text); err != nil {
		if errors.Is(err, ledger.ErrReviewTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "review must be at least 10 characters"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review"})
		return
	}

	movie, err := h.Movies.GetByID(c.Request.Context(), movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if movie == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}

	review, err := h.Ledger.AddReview(c.Request.Context(), movieID, claims.UserID, claims.Username, strings.TrimSpace(req.Text), req.Rating)
	if err != nil {
		log.Printf("[reviews] add review %s/%s: %v", movieID, claims.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.publish(events.Event{
		Type:    events.TypeReviewAdded,
		MovieID: movieID,
		UserID:  claims.UserID,
		Rating:  req.Rating,
	})

	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listByMovie(c *gin.Context) {
	movieID := strings.TrimSpace(c.Param("id"))
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie id required"})
		return
	}

	items, err := h.Ledger.ReviewsFor(c.Request.Context(), movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": items})
}

func (h *Handler) averageRating(c *gin.Context) {
	movieID := strings.TrimSpace(c.Param("id"))
	movie, err := h.Movies.GetByID(c.Request.Context(), movieID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if movie == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}

	avg, err := h.Ledger.AverageRating(c.Request.Context(), movieID, movie.Rating)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "average failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie_id": movieID, "average_rating": avg})
}

func (h *Handler) myRating(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID := strings.TrimSpace(c.Param("id"))
	rating, err := h.Ledger.UserRating(c.Request.Context(), movieID, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if rating == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not rated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie_id": movieID, "rating": rating})
}

func (h *Handler) publish(ev events.Event) {
	if h.Hub != nil {
		h.Hub.Broadcast(ev)
	}
}
