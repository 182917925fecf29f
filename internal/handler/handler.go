package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-resources/internal/logger"
	"go-resources/internal/model"
	"go-resources/internal/moderation"
	"go-resources/internal/screening"
	"go-resources/internal/service"
)

// Resources 资源相关操作
type Resources interface {
	Create(ctx context.Context, userID uint, title, category, url string) (*model.Resource, error)
	ListApproved(ctx context.Context, currentUser uint) ([]service.ResourceView, error)
	ToggleLike(ctx context.Context, resourceID, userID uint) (*service.ResourceView, error)
	ToggleSave(ctx context.Context, resourceID, userID uint) (*service.ResourceView, error)
	GetResourceStatus(ctx context.Context, resourceID, userID uint) (*model.Resource, error)
}

// Accounts 注册登录
type Accounts interface {
	TokenParser
	Signup(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type Articles interface {
	List(ctx context.Context) ([]service.Article, error)
}

type StatusReporter interface {
	GetSystemStatus(ctx context.Context) (*service.SystemStatus, error)
}

type sizer interface {
	Len() int
}

type Handler struct {
	resources Resources
	accounts  Accounts
	articles  Articles
	status    StatusReporter
	log       logger.Logger

	queue     sizer
	cache     sizer
	metrics   http.Handler
	scheduler interface {
		NextSweepTime() time.Time
	}
}

func NewHandler(resources Resources, accounts Accounts, articles Articles, status StatusReporter, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		resources: resources,
		accounts:  accounts,
		articles:  articles,
		status:    status,
		log:       log,
	}
}

// SetScheduler 设置调度器引用
func (h *Handler) SetScheduler(scheduler interface {
	NextSweepTime() time.Time
}) {
	h.scheduler = scheduler
}

// SetRuntime 状态接口展示的队列长度和缓存条目数
func (h *Handler) SetRuntime(queue, cache sizer) {
	h.queue = queue
	h.cache = cache
}

// SetMetrics 挂载 /metrics
func (h *Handler) SetMetrics(metrics http.Handler) {
	h.metrics = metrics
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)
		api.GET("/status", h.GetStatus)
	}

	authed := r.Group("/", AuthRequired(h.accounts))
	{
		authed.GET("/resources", h.ListResources)
		authed.POST("/resources", h.CreateResource)
		authed.POST("/resources/:id/like", h.ToggleLike)
		authed.POST("/resources/:id/save", h.ToggleSave)
		authed.GET("/resources/:id/status", h.GetResourceStatus)
		authed.GET("/articles", h.ListArticles)
	}

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}
}

// ===== 账号 =====

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	case err != nil:
		h.internalError(c, "Signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (h *Handler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.internalError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ===== 资源 =====

func (h *Handler) ListResources(c *gin.Context) {
	views, err := h.resources.ListApproved(c.Request.Context(), currentUser(c))
	if err != nil {
		h.internalError(c, "List resources failed", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type createResourceInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

func (h *Handler) CreateResource(c *gin.Context) {
	var in createResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.resources.Create(c.Request.Context(), currentUser(c), in.Title, in.Category, in.URL)
	if err != nil {
		var rejection *screening.RejectionError
		switch {
		case errors.As(err, &rejection):
			c.JSON(http.StatusBadRequest, gin.H{"error": rejection.Message})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title, category and url are required"})
		default:
			h.internalError(c, "Create resource failed", err)
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":    "Resource submitted and is being reviewed",
		"resourceId": res.ID,
		"status":     res.Status,
	})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggle(c, h.resources.ToggleLike)
}

func (h *Handler) ToggleSave(c *gin.Context) {
	h.toggle(c, h.resources.ToggleSave)
}

func (h *Handler) toggle(c *gin.Context, fn func(ctx context.Context, resourceID, userID uint) (*service.ResourceView, error)) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	view, err := fn(c.Request.Context(), id, currentUser(c))
	switch {
	case errors.Is(err, moderation.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	case err != nil:
		h.internalError(c, "Toggle failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) GetResourceStatus(c *gin.Context) {
	id, ok := resourceID(c)
	if !ok {
		return
	}

	res, err := h.resources.GetResourceStatus(c.Request.Context(), id, currentUser(c))
	if errors.Is(err, moderation.ErrResourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	if err != nil {
		h.internalError(c, "Get resource status failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              res.ID,
		"status":          res.Status,
		"rejectionReason": res.RejectionReason,
	})
}

func resourceID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id"})
		return 0, false
	}
	return uint(id), true
}

// ===== 文章 =====

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		h.log.Error("Fetch articles failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

// ===== 状态 =====

func (h *Handler) GetStatus(c *gin.Context) {
	status, err := h.status.GetSystemStatus(c.Request.Context())
	if err != nil {
		h.internalError(c, "Get status failed", err)
		return
	}

	if h.queue != nil {
		status.QueueDepth = h.queue.Len()
	}
	if h.cache != nil {
		status.CacheEntries = h.cache.Len()
	}
	// 添加定时任务信息
	if h.scheduler != nil {
		status.NextSweepTime = h.scheduler.NextSweepTime()
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.log.Error(msg, logger.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
