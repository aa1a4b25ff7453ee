package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

const exportSheet = "Candidaturas"

// exportLocation is Angola's time zone (WAT, no daylight saving)
var exportLocation = time.FixedZone("WAT", 60*60)

var exportHeaders = []string{
	"Nome", "Email", "Telefone", "Província", "Município",
	"Tipo de Bolsa", "Nível de Ensino", "Instituição", "Estado", "Data",
}

// ExportFile is a rendered export ready to download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// Export renders the filtered view, in display order. It never writes.
func (s *ReviewService) Export(ctx context.Context, filter models.ApplicationFilter, format string, actx models.AuditContext) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportXLSX {
		return nil, models.NewValidationError("format", "formato desconhecido")
	}

	listing, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := exportRows(listing.Applications)
	date := s.now().In(exportLocation).Format("2006-01-02")

	var file *ExportFile
	switch format {
	case ExportXLSX:
		data, err := renderXLSX(rows)
		if err != nil {
			return nil, err
		}
		file = &ExportFile{
			Filename:    "candidaturas_" + date + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}
	default:
		file = &ExportFile{
			Filename:    "candidaturas_" + date + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        renderCSV(rows),
		}
	}
	file.Rows = len(rows)

	observability.Exports.WithLabelValues(format).Inc()
	s.audit.Log(ctx, actx, models.AuditActionExport, models.AuditResourceApplication, "", nil, nil, map[string]string{
		"format":           format,
		"rows":             fmt.Sprint(file.Rows),
		"status":           listing.Filter.Status,
		"scholarship_type": listing.Filter.ScholarshipType,
		"province":         listing.Filter.Province,
		"search":           listing.Filter.Search,
	})
	return file, nil
}

func exportRows(apps []models.Application) [][]string {
	rows := make([][]string, 0, len(apps))
	for i := range apps {
		a := &apps[i]
		rows = append(rows, []string{
			a.FullName,
			a.Email,
			a.Phone,
			a.Province,
			a.Municipality,
			string(a.ScholarshipType),
			string(a.EducationLevel),
			a.Institution,
			string(a.Status),
			a.CreatedAt.In(exportLocation).Format("02/01/2006"),
		})
	}
	return rows
}

// renderCSV quotes every field, doubling embedded quotes, and separates
// records with a bare newline
func renderCSV(rows [][]string) []byte {
	var buf bytes.Buffer
	writeCSVRecord(&buf, exportHeaders)
	for _, row := range rows {
		buf.WriteByte('\n')
		writeCSVRecord(&buf, row)
	}
	return buf.Bytes()
}

func writeCSVRecord(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}

func renderXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeSheetRow(f, 1, exportHeaders); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}

	for i, row := range rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
