package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/api/handlers"
	"github.com/yoockh/halte-concierge/internal/api/middleware"
)

type Deps struct {
	Talk          *handlers.TalkHandler
	Relay         *handlers.RelayHandler
	AllowedOrigin string
	Logger        *logrus.Logger
}

// NewRouter builds the engine with recovery, request logging and CORS
// applied to every route, unmatched ones included.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.CORS(d.AllowedOrigin))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", handlers.Health)
	r.GET("/", handlers.Index(d.Relay))

	if d.Talk != nil {
		r.POST("/talk", d.Talk.Talk)
	}
	if d.Relay != nil {
		r.GET("/realtime", d.Relay.Relay)
	}
}
