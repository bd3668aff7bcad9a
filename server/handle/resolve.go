package handle

import (
	"net/http"

	"github.com/ctsync/ctsync/server/handle/api"
	"github.com/gin-gonic/gin"
)

type ResolveReq struct {
	Owner string `json:"owner" binding:"required"`
}

// Resolve marks an open record as resolved. Only the record owner may
// resolve, and the transition happens at most once.
func (h *Handler) Resolve(ctx *gin.Context) {
	recordId := ctx.Param("id")
	if recordId == "" {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "record id is required"))
		return
	}
	req := &ResolveReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, err.Error()))
		return
	}
	if err := h.doResolve(ctx, recordId, req.Owner); err != nil {
		ctx.JSON(http.StatusInternalServerError, api.RespErr(api.CodeDbError, err.Error()))
	}
}

func (h *Handler) doResolve(ctx *gin.Context, recordId, owner string) error {
	rec, err := h.DB().GetRecordByRecordId(recordId)
	if err != nil {
		return err
	}
	if rec.Id == 0 {
		ctx.JSON(http.StatusNotFound, api.RespErr(api.CodeNotFound, "record not found"))
		return nil
	}
	ok, err := h.DB().MarkResolved(recordId, owner)
	if err != nil {
		return err
	}
	if !ok {
		ctx.JSON(http.StatusConflict, api.RespErr(api.CodeConflict, "record is not open or owner does not match"))
		return nil
	}
	ctx.JSON(http.StatusOK, api.RespOK(gin.H{
		"record_id": recordId,
		"status":    "Resolved",
	}))
	return nil
}
