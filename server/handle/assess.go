package handle

import (
	"net/http"

	"github.com/ctsync/ctsync/assess"
	"github.com/ctsync/ctsync/server/handle/api"
	"github.com/gin-gonic/gin"
)

type AssessReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Assess returns the advisory urgency read for a draft report. It degrades
// to the neutral fallback rather than failing, so the response is always
// 200 with an assessment body.
func (h *Handler) Assess(ctx *gin.Context) {
	req := &AssessReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, err.Error()))
		return
	}
	if h.options.assessor == nil {
		ctx.JSON(http.StatusOK, api.RespOK(assess.Fallback()))
		return
	}
	assessment := h.options.assessor.Assess(ctx.Request.Context(), req.Title, req.Description)
	ctx.JSON(http.StatusOK, api.RespOK(assessment))
}
