package handle

import (
	"net/http"

	"github.com/ctsync/ctsync/model"
	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
)

// Records is a handler function for record listing requests. It validates
// the request parameters and calls the doRecords function.
func (h *Handler) Records(ctx *gin.Context) {
	page := ctx.DefaultQuery("page", "1")
	sort := model.SortOrder(ctx.DefaultQuery("sort", string(model.SortNewest)))
	if err := h.doRecords(ctx, page, sort); err != nil {
		ctx.Status(http.StatusInternalServerError)
		return
	}
}

func (h *Handler) doRecords(ctx *gin.Context, pageStr string, sort model.SortOrder) error {
	page := gconv.Int(pageStr)
	if page <= 0 {
		ctx.Status(http.StatusBadRequest)
		return nil
	}
	if sort != model.SortNewest && sort != model.SortOldest {
		ctx.Status(http.StatusBadRequest)
		return nil
	}
	pageSize := 100

	rows, err := h.DB().FindRecordsByPage(page, pageSize, sort)
	if err != nil {
		return err
	}

	more := len(rows) > pageSize
	if more {
		rows = rows[:pageSize]
	}
	records := make([]*RespRecord, 0, len(rows))
	for i := range rows {
		record := rows[i].ToRecord()
		records = append(records, &RespRecord{
			EvidenceRecord: record,
			Status:         record.Status().String(),
			Urgency:        record.Severity().String(),
			ExplorerURL:    record.ExplorerURL(),
		})
	}
	ctx.JSON(http.StatusOK, gin.H{
		"page_index": page,
		"more":       more,
		"records":    records,
	})
	return nil
}
