package middleware

import (
	"net/http"
	"time"

	"sessionaudio/internal/models"
	"sessionaudio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "sa_session"

// RequireAuth 校验会话 cookie，拒绝所有未登录请求。
// cookie 里是一个只携带会话 ID 的 JWT，会话本身存在数据库里，
// 这样登出才能真正让 cookie 失效。
func RequireAuth(sessionSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(sessionSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		var session models.Session
		if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			util.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		if session.Revoked || time.Now().After(session.ExpiresAt) {
			util.Error(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		c.Set("sessionID", session.ID)
		c.Next()
	}
}
