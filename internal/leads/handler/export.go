package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"prombaza_backend/internal/leads/service"
	"prombaza_backend/internal/leads/transport"
	"prombaza_backend/platform/httpkit"
)

const (
	exportDateLayout = "02.01.2006, 15:04:05"
	xlsxMimeType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Export streams the lead base as a file. format=csv returns a UTF-8 CSV
// with a BOM so Excel detects the encoding; anything else returns a JSON
// envelope the dashboard turns into a spreadsheet client-side.
func (h *Handler) Export(c *gin.Context) {
	var req transport.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	scored, err := h.svc.Export(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	rows := make([]transport.ExportRow, 0, len(scored))
	for _, item := range scored {
		rows = append(rows, toExportRow(item))
	}

	if req.Format == "csv" {
		writeCSV(c, rows)
		return
	}

	httpkit.OK(c, transport.ExportEnvelope{
		Data:     rows,
		Filename: fmt.Sprintf("leads_%s.xlsx", time.Now().Format("2006-01-02")),
		MimeType: xlsxMimeType,
	})
}

func toExportRow(item service.ScoredLead) transport.ExportRow {
	lead := item.Lead

	lastActivity := lead.LastActivity
	if lastActivity.IsZero() {
		lastActivity = lead.CreatedAt
	}

	return transport.ExportRow{
		Name:         lead.Name,
		Phone:        lead.Phone,
		Email:        lead.Email,
		LeadType:     lead.Type,
		Status:       string(lead.Status),
		Priority:     string(lead.Priority),
		Score:        lead.Score,
		Message:      lead.Message,
		CreatedAt:    lead.CreatedAt.Format(exportDateLayout),
		LastActivity: lastActivity.Format(exportDateLayout),
		Readiness:    item.Analysis.ReadinessLevel,
	}
}

func writeCSV(c *gin.Context, rows []transport.ExportRow) {
	var buf bytes.Buffer
	// BOM so Excel opens the file as UTF-8.
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	_ = w.Write(transport.ExportHeaders())
	for _, row := range rows {
		_ = w.Write([]string{
			row.Name, row.Phone, row.Email, row.LeadType, row.Status,
			row.Priority, strconv.Itoa(row.Score), row.Message,
			row.CreatedAt, row.LastActivity, row.Readiness,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "export failed", nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leads.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
