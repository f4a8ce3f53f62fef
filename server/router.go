package server

import (
	"fmt"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()

	if gin.Mode() != gin.TestMode {
		// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
		r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC1123),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		}))
	}
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	s.defineRoutes(r)

	return r
}

func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if origins := strings.TrimSpace(s.Config.AccessControlAllowOrigin); origins != "" {
		conf.AllowOrigins = strings.Split(origins, ",")
	} else {
		conf.AllowAllOrigins = true
	}
	return conf
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.Config.LoginRateLimit,
	})
	limitRate := limitRateByClientIP(store)

	apirouter := router.Group("/api/v1")
	apirouter.GET("/catalog", s.handleGetCatalog())
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", limitRate, s.handleLogin())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditProfile())
	authorized.GET("/me/dashboard", s.handleCitizenDashboard())
	authorized.POST("/reports", s.handleCreateReport())
	authorized.GET("/reports/mine", s.handleGetMyReports())
	authorized.GET("/reports/:id", s.handleGetReport())

	admin := authorized.Group("/")
	admin.Use(RequireAdmin())
	admin.GET("/reports", s.handleListReports())
	admin.GET("/reports/status/:status", s.handleGetReportsByStatus())
	admin.PUT("/reports/:id", s.handleUpdateReport())
	admin.DELETE("/reports/:id", s.handleDeleteReport())
	admin.GET("/dashboard", s.handleAdminDashboard())
}
