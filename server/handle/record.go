package handle

import (
	"net/http"
	"strings"

	"github.com/ctsync/ctsync/model"
	"github.com/gin-gonic/gin"
)

// RespRecord is the response for a single evidence record request.
type RespRecord struct {
	*model.EvidenceRecord
	Status      string `json:"status"`
	Urgency     string `json:"urgency"`
	ExplorerURL string `json:"explorer_url"`
}

// Record is a handler function for single record requests. It validates the
// request parameters and calls the doRecord function.
func (h *Handler) Record(ctx *gin.Context) {
	recordId := ctx.Param("id")
	if recordId == "" {
		ctx.Status(http.StatusBadRequest)
		return
	}
	if err := h.doRecord(ctx, recordId); err != nil {
		ctx.Status(http.StatusInternalServerError)
		return
	}
}

func (h *Handler) doRecord(ctx *gin.Context, recordId string) error {
	recordId = strings.TrimSpace(recordId)
	row, err := h.DB().GetRecordByRecordId(recordId)
	if err != nil {
		return err
	}
	if row.Id == 0 {
		ctx.Status(http.StatusNotFound)
		return nil
	}

	record := row.ToRecord()
	ctx.JSON(http.StatusOK, &RespRecord{
		EvidenceRecord: record,
		Status:         record.Status().String(),
		Urgency:        record.Severity().String(),
		ExplorerURL:    record.ExplorerURL(),
	})
	return nil
}
