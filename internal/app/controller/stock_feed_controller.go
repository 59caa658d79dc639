package controller

import (
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	ws "github.com/hanzla-outlet/outlet-backend/internal/websocket"
)

type StockFeedController struct {
	hub      *ws.Hub
	upgrader *gorilla.Upgrader
}

func NewStockFeedController(hub *ws.Hub, allowedOrigins []string) *StockFeedController {
	return &StockFeedController{
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// Subscribe upgrades the connection to the live stock feed. Guests may subscribe.
// GET /api/v1/ws/stock
func (ctrl *StockFeedController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	userID, _ := middleware.GetUserID(c)
	ctrl.hub.Serve(conn, userID)

	log.Info("Stock feed connection established", map[string]interface{}{
		"user_id": userID,
	})
}
