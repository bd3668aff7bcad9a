package handle

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ctsync/ctsync/constants"
	"github.com/ctsync/ctsync/internal/sentry"
	"github.com/ctsync/ctsync/internal/util"
	"github.com/ctsync/ctsync/mint"
	"github.com/ctsync/ctsync/pkg/log"
	"github.com/ctsync/ctsync/server/handle/api"
	"github.com/ctsync/ctsync/server/tables"
	"github.com/ctsync/ctsync/storage"
	"github.com/gin-gonic/gin"
	"github.com/gogf/gf/v2/util/gconv"
)

// Submit runs the evidence submission pipeline for an uploaded file,
// streaming progress events to the client as they are emitted and ending
// with a terminal result or error event.
func (h *Handler) Submit(ctx *gin.Context) {
	defer sentry.RecoverPanic()

	if h.options.minter == nil {
		ctx.JSON(http.StatusServiceUnavailable, api.RespErr(api.CodeMintFailed, "submission is not configured on this server"))
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "title is required"))
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "evidence file is required"))
		return
	}
	if fileHeader.Size > constants.MaxUploadBytes {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, "evidence file exceeds the 100MB limit"))
		return
	}

	// The mp4 codec check needs a real file path, so the upload lands in
	// a temp file first.
	tmpPath := filepath.Join(os.TempDir(), "ctsync-upload-"+gconv.String(time.Now().UnixNano())+filepath.Ext(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		ctx.JSON(http.StatusInternalServerError, api.RespErr(api.CodeError500, err.Error()))
		return
	}
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	media, err := util.ContentTypeForPath(tmpPath)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, api.RespErr(api.CodeParamsInvalid, err.Error()))
		return
	}
	file, err := os.Open(tmpPath)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, api.RespErr(api.CodeError500, err.Error()))
		return
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, api.RespErr(api.CodeError500, err.Error()))
		return
	}

	sub := &mint.Submission{
		Token:       ctx.PostForm("token"),
		Data:        data,
		ContentType: media.ContentType.String(),
		Name:        title,
		Description: ctx.PostForm("description"),
		Attributes:  h.submitAttributes(ctx),
	}

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	result, err := h.options.minter.Mint(ctx.Request.Context(), sub, func(p mint.Progress) {
		ctx.SSEvent("progress", p)
		ctx.Writer.Flush()
	})
	if err != nil {
		ctx.SSEvent("error", gin.H{
			"kind":    mint.ResultLabel(err),
			"message": mint.UserMessage(err),
		})
		ctx.Writer.Flush()
		return
	}

	h.mirrorSubmission(sub, result)
	ctx.SSEvent("result", result)
	ctx.Writer.Flush()
}

// submitAttributes assembles the display attributes for an HTTP
// submission, urgency first, in insertion order.
func (h *Handler) submitAttributes(ctx *gin.Context) []storage.Attribute {
	urgency := ctx.PostForm("urgency")
	switch urgency {
	case constants.SeverityLow.String(), constants.SeverityMedium.String(), constants.SeverityHigh.String():
	default:
		urgency = constants.SeverityMedium.String()
	}
	attributes := []storage.Attribute{
		{TraitType: constants.TraitUrgency, Value: urgency},
	}
	if location := ctx.PostForm("location"); location != "" {
		attributes = append(attributes, storage.Attribute{TraitType: constants.TraitLocation, Value: location})
	}
	return append(attributes, storage.Attribute{
		TraitType: constants.TraitStatus,
		Value:     constants.StatusOpen.String(),
	})
}

// mirrorSubmission writes the freshly anchored record into the local index
// so reads see it before the next ledger sync pass.
func (h *Handler) mirrorSubmission(sub *mint.Submission, result *mint.Result) {
	rec := &tables.Records{
		RecordId:    result.RecordId,
		Owner:       result.Owner,
		Title:       sub.Name,
		Description: sub.Description,
		ImageURI:    result.ImageURI,
		MetadataURI: result.MetadataURI,
		ChainId:     constants.ChainIdSepolia,
		TxHash:      result.TxHash,
		Status:      constants.StatusOpen.String(),
		Timestamp:   time.Now().Unix(),
	}
	for _, attr := range sub.Attributes {
		switch attr.TraitType {
		case constants.TraitUrgency:
			rec.Urgency = attr.Value
		case constants.TraitLocation:
			rec.Location = attr.Value
		}
	}
	if err := h.DB().SaveRecord(rec); err != nil {
		log.Srv.Errorw("record mirror failed", "record_id", result.RecordId, "err", err)
	}
}
