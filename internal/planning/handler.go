package planning

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mariekewagner2302-lang/travelplanner/internal/cache"
	"github.com/mariekewagner2302-lang/travelplanner/internal/http/handlers"
	"github.com/mariekewagner2302-lang/travelplanner/internal/observability"
)

type PlanGenerator interface {
	Generate(ctx context.Context, req TripRequest) (json.RawMessage, error)
}

type Handler struct {
	engine PlanGenerator
	cache  cache.Cache
	ttl    time.Duration
	log    *slog.Logger
	prom   *observability.Prom
}

func NewHandler(engine PlanGenerator, c cache.Cache, ttl time.Duration, log *slog.Logger, prom *observability.Prom) *Handler {
	return &Handler{engine: engine, cache: c, ttl: ttl, log: log, prom: prom}
}

func (h *Handler) Generate(ctx *gin.Context) {
	var req TripRequest

	if !handlers.BindJSON(ctx, &req) {
		h.prom.CountPlanRequest("bad_request")
		return
	}

	cctx := ctx.Request.Context()
	key := req.CacheKey()

	if data, ok, err := h.cache.Get(cctx, key); err != nil {
		// a broken cache only costs us the shortcut
		h.log.WarnContext(cctx, "plan cache read failed", "err", err)
	} else if ok {
		h.prom.CountPlanCacheHit()
		h.prom.CountPlanRequest("ok")
		ctx.Data(http.StatusOK, "application/json", data)
		return
	}

	plan, err := h.engine.Generate(cctx, req)

	if err != nil {
		h.prom.CountPlanRequest("error")
		h.log.ErrorContext(cctx, "plan generation failed", "destination", req.Destination, "err", err)
		handlers.RespondInternal(ctx)
		return
	}

	if err := h.cache.Set(cctx, key, plan, h.ttl); err != nil {
		h.log.WarnContext(cctx, "plan cache write failed", "err", err)
	}

	h.prom.CountPlanRequest("ok")
	ctx.Data(http.StatusOK, "application/json", plan)
}
