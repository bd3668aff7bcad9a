package handle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctsync/ctsync/server/dao"
	"github.com/ctsync/ctsync/server/tables"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.AutoMigrate(tables.Tables...); err != nil {
		t.Fatal(err)
	}
	h, err := New(WithDB(&dao.DB{DB: gdb}))
	if err != nil {
		t.Fatal(err)
	}
	h.Engine().POST("/record/:id/resolve", h.Resolve)
	return h
}

func postResolve(t *testing.T, h *Handler, recordId, owner string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"owner": owner})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/record/"+recordId+"/resolve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Engine().ServeHTTP(w, req)
	return w
}

func TestResolveEndpoint(t *testing.T) {
	h := newTestHandler(t)
	if err := h.DB().SaveRecord(&tables.Records{
		RecordId: "7",
		Owner:    "0xowner",
		Title:    "Broken streetlight",
		Status:   "Open",
	}); err != nil {
		t.Fatal(err)
	}

	if w := postResolve(t, h, "missing", "0xowner"); w.Code != http.StatusNotFound {
		t.Fatalf("missing record: status %d", w.Code)
	}
	if w := postResolve(t, h, "7", "0xother"); w.Code != http.StatusConflict {
		t.Fatalf("non-owner: status %d", w.Code)
	}

	w := postResolve(t, h, "7", "0xowner")
	if w.Code != http.StatusOK {
		t.Fatalf("owner resolve: status %d body %s", w.Code, w.Body.String())
	}
	rec, err := h.DB().GetRecordByRecordId("7")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != "Resolved" {
		t.Fatalf("status %q after resolve", rec.Status)
	}

	// Exactly once: the owner's second attempt hits the conflict path.
	if w := postResolve(t, h, "7", "0xowner"); w.Code != http.StatusConflict {
		t.Fatalf("second resolve: status %d", w.Code)
	}
}

func TestResolveEndpointRequiresOwner(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/record/7/resolve", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing owner: status %d", w.Code)
	}
}
