package handler

import (
	"net/http"
	"strconv"
	"time"

	"sessionaudio/internal/auth"
	"sessionaudio/internal/middleware"
	"sessionaudio/internal/models"
	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/登出/状态相关接口
type AuthHandler struct {
	DB            *gorm.DB
	Guard         *auth.Guard
	Validator     *auth.Validator
	SessionSecret string
	SessionTTL    time.Duration
	DevMode       bool
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, guard *auth.Guard, validator *auth.Validator, sessionSecret string, ttlHours int, devMode bool) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24 * 7
	}
	return &AuthHandler{
		DB:            db,
		Guard:         guard,
		Validator:     validator,
		SessionSecret: sessionSecret,
		SessionTTL:    time.Duration(ttlHours) * time.Hour,
		DevMode:       devMode,
	}
}

type loginReq struct {
	Password string `json:"password"`
}

// Login 用共享密码登录。锁定状态下直接拒绝，不校验密码也不记录尝试。
func (h *AuthHandler) Login(c *gin.Context) {
	clientIP := c.ClientIP()

	locked, err := h.Guard.IsLocked()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}
	if locked {
		c.JSON(http.StatusForbidden, gin.H{
			"error":  "System locked due to too many failed attempts",
			"locked": true,
		})
		return
	}

	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		util.Error(c, http.StatusBadRequest, "Password required")
		return
	}

	if !h.Validator.Validate(req.Password) {
		// 密码错误：记录失败尝试，并把最新的计数和锁定状态带回去，
		// 让客户端能感知到刚好进入锁定的那一次
		_ = h.Guard.Record(clientIP, false)
		failedCount, _ := h.Guard.FailedAttempts()
		nowLocked, _ := h.Guard.IsLocked()

		c.JSON(http.StatusUnauthorized, gin.H{
			"error":          "Invalid password",
			"failedAttempts": failedCount,
			"locked":         nowLocked,
		})
		return
	}

	// 登录成功：建立会话，签发 cookie
	session := models.Session{
		ID:        uuid.NewString(),
		ExpiresAt: time.Now().Add(h.SessionTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := util.GenerateSessionToken(h.SessionSecret, session.ID, h.SessionTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := h.Guard.Record(clientIP, true); err != nil {
		util.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.SessionTTL.Seconds()), "/", "", false, true)

	util.OK(c, gin.H{
		"success": true,
		"message": "Login successful",
	})
}

// Logout 撤销当前会话并清除 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("sessionID")
	if sessionID != "" {
		if err := h.DB.Model(&models.Session{}).
			Where("id = ?", sessionID).
			Update("revoked", true).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	util.OK(c, gin.H{"success": true, "message": "Logged out"})
}

// Status 无需登录的状态查询，客户端据此决定渲染登录页还是主页。
// debug 模式下始终返回已认证，方便前端联调；这不是安全边界。
func (h *AuthHandler) Status(c *gin.Context) {
	authenticated := h.DevMode || h.sessionValid(c)
	locked, _ := h.Guard.IsLocked()

	util.OK(c, gin.H{
		"authenticated": authenticated,
		"locked":        locked,
	})
}

// Locked 返回锁定状态和失败次数
func (h *AuthHandler) Locked(c *gin.Context) {
	locked, err := h.Guard.IsLocked()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to check lock state")
		return
	}
	failedCount, err := h.Guard.FailedAttempts()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to check lock state")
		return
	}

	util.OK(c, gin.H{
		"locked":         locked,
		"failedAttempts": failedCount,
	})
}

// Attempts 返回最近的登录尝试记录（最新在前），用于监控
func (h *AuthHandler) Attempts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	attempts, err := h.Guard.Recent(limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to fetch attempts")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// sessionValid 检查请求是否携带一个仍然有效的会话 cookie
func (h *AuthHandler) sessionValid(c *gin.Context) bool {
	tokenStr, err := c.Cookie(middleware.SessionCookie)
	if err != nil || tokenStr == "" {
		return false
	}
	claims, err := util.ParseSessionToken(h.SessionSecret, tokenStr)
	if err != nil {
		return false
	}
	var session models.Session
	if err := h.DB.First(&session, "id = ?", claims.SessionID).Error; err != nil {
		return false
	}
	return !session.Revoked && time.Now().Before(session.ExpiresAt)
}
