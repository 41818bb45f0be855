package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"marketing_content_studio/content"
	"marketing_content_studio/exporter"
	"marketing_content_studio/store"
)

type exportReq struct {
	Items []content.ExportItem `json:"items"`
}

// handleExport renders the selected variants in the requested format. CSV,
// PDF, and DOCX come back as file downloads; text returns JSON for the
// clipboard.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, user store.User) {
	var req exportReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "no items to export")
		return
	}

	now := time.Now()
	switch format := r.PathValue("format"); format {
	case "csv":
		sendAttachment(w, "text/csv; charset=utf-8", "content_export.csv", exporter.CSV(req.Items))
	case "pdf":
		data, err := exporter.PDF(req.Items, now)
		if err != nil {
			s.log.Error("render pdf", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "PDF export failed")
			return
		}
		sendAttachment(w, "application/pdf", "content_export.pdf", data)
	case "docx":
		data, err := renderDOCX(req.Items, now)
		if err != nil {
			s.log.Error("render docx", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "DOCX export failed")
			return
		}
		sendAttachment(w,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"content_export.docx", data)
	case "text":
		writeJSON(w, http.StatusOK, map[string]string{"text": exporter.ClipboardText(req.Items)})
	default:
		writeError(w, http.StatusBadRequest, "Invalid format. Valid values: csv, pdf, docx, text")
	}
}

// renderDOCX goes through a temp file because the docx writer only saves to
// a path.
func renderDOCX(items []content.ExportItem, now time.Time) ([]byte, error) {
	dir, err := os.MkdirTemp("", "export")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "content_export.docx")
	if err := exporter.DOCX(items, now, path); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
