package handlers

import (
	"log/slog"
	"net/http"

	"fantasy_cricket/internal/api/middleware"
	"fantasy_cricket/internal/domain"
	"fantasy_cricket/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	teamService    *service.TeamService
	playerService  *service.PlayerService
	profileService *service.ProfileService
	statsService   *service.StatsService
	logger         *slog.Logger
}

func NewHandler(
	teamService *service.TeamService,
	playerService *service.PlayerService,
	profileService *service.ProfileService,
	statsService *service.StatsService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		teamService:    teamService,
		playerService:  playerService,
		profileService: profileService,
		statsService:   statsService,
		logger:         logger,
	}
}

// /health
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// /stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// POST /teams
func (h *Handler) TeamCreate(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	var req struct {
		TeamName string `json:"team_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidName)
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), callerID, req.TeamName)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.teamToResponse(team))
}

// POST /teams/:id/players
func (h *Handler) TeamAddPlayer(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	var req struct {
		PlayerID string `json:"player_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	team, err := h.teamService.AddPlayer(c.Request.Context(), teamID, playerID, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.teamToResponse(team))
}

// POST /teams/:id/finalize
func (h *Handler) TeamFinalize(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	team, roster, err := h.teamService.Finalize(c.Request.Context(), teamID, callerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	players := make([]gin.H, len(roster))
	for i, p := range roster {
		players[i] = h.playerToResponse(&p)
	}

	c.JSON(http.StatusOK, gin.H{
		"team":   h.teamToResponse(team),
		"roster": players,
	})
}

// GET /teams/:id
func (h *Handler) TeamGet(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.teamToResponse(team))
}

// GET /teams?owner_id=...
func (h *Handler) TeamList(c *gin.Context) {
	var (
		teams []domain.FantasyTeam
		err   error
	)

	if ownerID := c.Query("owner_id"); ownerID != "" {
		teams, err = h.teamService.GetTeamsByOwner(c.Request.Context(), ownerID)
	} else {
		teams, err = h.teamService.ListTeams(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]gin.H, len(teams))
	for i := range teams {
		resp[i] = h.teamToResponse(&teams[i])
	}

	c.JSON(http.StatusOK, gin.H{"teams": resp})
}

// POST /players
func (h *Handler) PlayerCreate(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Role        string `json:"role" binding:"required"`
		Team        string `json:"team" binding:"required"`
		TotalPoints int64  `json:"total_points"`
		BaseCost    int64  `json:"base_cost"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	player, err := h.playerService.CreatePlayer(
		c.Request.Context(), callerID,
		req.Name, req.Role, req.Team, req.TotalPoints, req.BaseCost,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.playerToResponse(player))
}

// GET /players
func (h *Handler) PlayerList(c *gin.Context) {
	players, err := h.playerService.ListPlayers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]gin.H, len(players))
	for i := range players {
		resp[i] = h.playerToResponse(&players[i])
	}

	c.JSON(http.StatusOK, gin.H{"players": resp})
}

// GET /players/:id
func (h *Handler) PlayerGet(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	player, err := h.playerService.GetPlayer(c.Request.Context(), playerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.playerToResponse(player))
}

// PUT /profile
func (h *Handler) ProfileSave(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), callerID, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": profile.UserID,
		"name":    profile.Name,
	})
}

// GET /profile/:user_id
func (h *Handler) ProfileGet(c *gin.Context) {
	userID := c.Param("user_id")

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": profile.UserID,
		"name":    profile.Name,
	})
}

// POST /roles
func (h *Handler) RoleAssign(c *gin.Context) {
	callerID := middleware.CallerID(c)
	if callerID == "" {
		h.handleError(c, domain.ErrMissingIdentity)
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, domain.ErrInvalidInput)
		return
	}

	err := h.profileService.AssignRole(c.Request.Context(), callerID, req.UserID, domain.UserRole(req.Role))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": req.UserID,
		"role":    req.Role,
	})
}

func (h *Handler) teamToResponse(team *domain.FantasyTeam) gin.H {
	playerIDs := make([]string, len(team.PlayerIDs))
	for i, id := range team.PlayerIDs {
		playerIDs[i] = id.String()
	}

	return gin.H{
		"team_id":      team.ID.String(),
		"owner_id":     team.OwnerID,
		"team_name":    team.Name,
		"player_ids":   playerIDs,
		"balance":      team.Balance,
		"total_points": team.TotalPoints,
		"status":       team.Status,
	}
}

func (h *Handler) playerToResponse(p *domain.Player) gin.H {
	return gin.H{
		"player_id":    p.ID.String(),
		"name":         p.Name,
		"role":         p.Role,
		"team":         p.Team,
		"total_points": p.TotalPoints,
		"base_cost":    p.BaseCost,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	apiErr := domain.ToAPIError(err)

	var statusCode int
	switch apiErr.Code {
	case domain.CodeBadRequest:
		statusCode = http.StatusBadRequest
	case domain.CodeMissingIdentity:
		statusCode = http.StatusUnauthorized
	case domain.CodeUnauthorized:
		statusCode = http.StatusForbidden
	case domain.CodeNotFound:
		statusCode = http.StatusNotFound
	case domain.CodeTeamLocked, domain.CodeDuplicatePlayer, domain.CodeRosterFull,
		domain.CodeIncompleteRoster, domain.CodeWrongRosterSize, domain.CodeDuplicatePlayers:
		statusCode = http.StatusConflict
	case domain.CodeInsufficientBalance, domain.CodeNegativeBalance:
		statusCode = http.StatusUnprocessableEntity
	default:
		statusCode = http.StatusInternalServerError
	}

	h.logger.Error("request error",
		slog.String("code", string(apiErr.Code)),
		slog.String("message", apiErr.Message),
		slog.Int("status", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.GetHealth)
	r.GET("/stats", h.GetStats)

	r.POST("/teams", h.TeamCreate)
	r.GET("/teams", h.TeamList)
	r.GET("/teams/:id", h.TeamGet)
	r.POST("/teams/:id/players", h.TeamAddPlayer)
	r.POST("/teams/:id/finalize", h.TeamFinalize)

	r.POST("/players", h.PlayerCreate)
	r.GET("/players", h.PlayerList)
	r.GET("/players/:id", h.PlayerGet)

	r.PUT("/profile", h.ProfileSave)
	r.GET("/profile/:user_id", h.ProfileGet)

	r.POST("/roles", h.RoleAssign)
}
