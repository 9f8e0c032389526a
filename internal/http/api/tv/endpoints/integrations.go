package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/athan/internal/http/api"
	"github.com/Nixie-Tech-LLC/athan/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

// Board is the read side of the tracker the screens need.
type Board interface {
	City() string
	Snapshot() model.Snapshot
	Board() []model.Prayer
}

type IntegrationsController struct {
	board Board
}

// IntegrationsModule mounts the screen facing athan endpoints
func IntegrationsModule(board Board) api.Module {
	ctl := &IntegrationsController{board: board}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/athan/today", ctl.today)
		c.RAW_GET("/integrations/:name", ctl.serveIntegration)
	})
}

// GET /api/tv/athan/today
func (i *IntegrationsController) today(ctx *gin.Context) (any, *api.Error) {
	snap := i.board.Snapshot()
	if snap.Date == "" {
		return nil, &api.Error{Code: http.StatusServiceUnavailable, Message: "no schedule loaded for today"}
	}
	return packets.TodayResponse{
		City:     snap.City,
		Date:     snap.Date,
		Schedule: snap.Schedule,
		Next:     snap.Next,
		Selected: snap.Selected,
		Prayers:  i.board.Board(),
	}, nil
}

// GET /api/tv/integrations/:name
func (i *IntegrationsController) serveIntegration(ctx *gin.Context) {
	switch ctx.Param("name") {
	case "athan":
		i.serveAthan(ctx)
	default:
		ctx.String(http.StatusNotFound, "integration not found")
	}
}

func (i *IntegrationsController) serveAthan(ctx *gin.Context) {
	day := time.Now()
	if snap := i.board.Snapshot(); snap.Date != "" {
		if parsed, err := time.Parse("2006-01-02", snap.Date); err == nil {
			day = parsed
		}
	}

	data := model.AthanPageData{
		City:    i.board.City(),
		Date:    strings.ToUpper(day.Format("January 2, 2006")),
		Prayers: i.board.Board(),
	}
	ctx.HTML(http.StatusOK, "athan.html", data)
}
