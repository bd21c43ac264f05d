package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires all handlers into a gin engine.
func SetupRouter(courseHandler *CourseHandler, quizHandler *QuizHandler, statsHandler *StatsHandler, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowHeaders = append(config.AllowHeaders, "Content-Type")
	r.Use(cors.New(config))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/courses", courseHandler.Create)
		apiV1.GET("/courses", courseHandler.List)
		apiV1.GET("/courses/:id", courseHandler.Get)
		apiV1.DELETE("/courses/:id", courseHandler.Delete)
		apiV1.GET("/courses/:id/summary", courseHandler.Summary)
		apiV1.POST("/courses/:id/chat", courseHandler.Chat)

		apiV1.POST("/courses/:id/quizzes", quizHandler.Generate)
		apiV1.GET("/courses/:id/quizzes", quizHandler.ListByCourse)
		apiV1.GET("/quizzes/:id", quizHandler.Get)
		apiV1.POST("/quizzes/:id/sessions", quizHandler.StartSession)
		apiV1.POST("/sessions/:id/submit", quizHandler.Submit)
		apiV1.GET("/attempts/:id", quizHandler.GetAttempt)
		apiV1.GET("/attempts/:id/correction", quizHandler.Correction)

		apiV1.GET("/users/:name/stats", statsHandler.Get)

		apiV1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "UP"})
		})
	}

	return r
}
