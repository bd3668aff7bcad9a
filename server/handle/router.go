package handle

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) InitRouter() {
	if h.options.enablePProf {
		pprof.Register(h.Engine())
	}
	h.Engine().GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Engine().GET("/record/:id", h.Record)
	h.Engine().GET("/records", h.Records)
	h.Engine().GET("/content/:reference", h.Content)
	h.Engine().POST("/assess", h.Assess)
	h.Engine().POST("/submit", h.Submit)
	h.Engine().POST("/record/:id/resolve", h.Resolve)
}
