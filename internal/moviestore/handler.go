package moviestore

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"moviehub/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /movies
	rg.GET("/:id", h.getByID) // GET /movies/:id
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
	rg.POST("/movies", h.upsert)
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:      c.Query("q"),
		Year:   parseInt(c.Query("year"), 0),
		Limit:  parseInt(c.Query("limit"), 100),
		Offset: parseInt(c.Query("offset"), 0),
	}

	// genre=Action,Drama OR genre=Action&genre=Drama
	genres := c.QueryArray("genre")
	if len(genres) == 0 {
		if s := c.Query("genre"); s != "" {
			genres = strings.Split(s, ",")
		}
	}
	q.Genres = genres

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"movies": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	m, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) stats(c *gin.Context) {
	s, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, s)
}

type upsertRequest struct {
	Movies []upsertMovie `json:"movies" binding:"required"`
}

type upsertMovie struct {
	ID          string   `json:"id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Year        int      `json:"year"`
	Director    string   `json:"director"`
	Genre       []string `json:"genre"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	Cast        []string `json:"cast"`
	Duration    string   `json:"duration"`
	Country     string   `json:"country"`
	Language    string   `json:"language"`
	Poster      string   `json:"poster"`
}

func (h *Handler) upsert(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movies with id and title are required"})
		return
	}

	batch := make([]models.Movie, 0, len(req.Movies))
	for _, m := range req.Movies {
		batch = append(batch, models.Movie{
			ID:          m.ID,
			Title:       m.Title,
			Year:        m.Year,
			Director:    m.Director,
			Genre:       m.Genre,
			Rating:      m.Rating,
			Description: m.Description,
			Cast:        m.Cast,
			Duration:    m.Duration,
			Country:     m.Country,
			Language:    m.Language,
			Poster:      m.Poster,
		})
	}

	if err := h.Repo.SaveMovies(c.Request.Context(), batch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": len(batch)})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
