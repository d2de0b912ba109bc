package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/kirei/backend/internal/model"
	"github.com/kirei/backend/internal/repository"
)

// exportRowCap is a safety cap against unbounded memory use; exports are not
// otherwise size-limited.
const exportRowCap = 10000

// exportServiceImpl is the production implementation of ExportService.
type exportServiceImpl struct {
	repo repository.MessageRepository
}

// NewExportService creates an ExportService backed by the given repository.
func NewExportService(repo repository.MessageRepository) ExportService {
	return &exportServiceImpl{repo: repo}
}

// Export builds the download payload for the given format and status filter.
func (s *exportServiceImpl) Export(ctx context.Context, format, status string) (*ExportResult, error) {
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		return nil, ErrInvalidFormat
	}
	if status != "" && status != "all" && !model.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	messages, err := s.repo.List(ctx, model.MessageListOptions{
		Status: status,
		Limit:  exportRowCap,
		Offset: 0,
	})
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	date := time.Now().Format("2006-01-02")

	switch format {
	case FormatCSV:
		data, err := encodeCSV(messages)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    "messages-export-" + date + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        data,
		}, nil
	default:
		data, err := json.MarshalIndent(messages, "", "  ")
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    "messages-export-" + date + ".json",
			ContentType: "application/json",
			Data:        data,
		}, nil
	}
}

// encodeCSV writes messages in a fixed column order. encoding/csv applies
// RFC 4180 quoting: fields containing commas, quotes or newlines are wrapped
// in double quotes with internal quotes doubled. An empty set still produces
// the header row.
func encodeCSV(messages []*model.Message) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "email", "phone", "message", "status", "created_at", "ip_address"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, m := range messages {
		record := []string{
			strconv.FormatInt(m.ID, 10),
			m.Name,
			m.Email,
			m.Phone,
			m.Message,
			m.Status,
			m.CreatedAt.Format(time.RFC3339),
			m.IPAddress,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
