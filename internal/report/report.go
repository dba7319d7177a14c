package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/view"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(v)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %s", v)
}

func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

func (f Format) Filename() string {
	return "task-report." + string(f)
}

// Report is the snapshot behind the reports screen.
type Report struct {
	GeneratedAt   time.Time          `json:"generatedAt" yaml:"generatedAt"`
	Stats         view.Stats         `json:"stats" yaml:"stats"`
	PriorityShare view.PriorityShare `json:"priorityShare" yaml:"priorityShare"`
	Overdue       []string           `json:"overdue" yaml:"overdue"`
	Tasks         []model.Task       `json:"tasks" yaml:"tasks"`
}

// Build computes the report for tasks at now. Tasks are listed by due date.
func Build(tasks []model.Task, now time.Time) Report {
	stats := view.ComputeStats(tasks, now)
	sorted := view.Sort(tasks, model.SortByDate)
	overdue := make([]string, 0, stats.OverdueCount)
	for _, t := range sorted {
		if view.IsOverdue(t, now) {
			overdue = append(overdue, t.ID)
		}
	}
	return Report{
		GeneratedAt:   now,
		Stats:         stats,
		PriorityShare: stats.PriorityShare(),
		Overdue:       overdue,
		Tasks:         sorted,
	}
}

type options struct {
	fontPath string
}

// Option tunes Export.
type Option func(*options)

// WithFont renders PDFs with the UTF-8 TrueType font at path. Without it the
// core Arial font is used, which only covers Latin-1.
func WithFont(path string) Option {
	return func(o *options) { o.fontPath = path }
}

func Export(w io.Writer, r Report, format Format, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, r)
	case FormatPDF:
		return writePDF(w, r, o)
	case FormatXLSX:
		return writeXLSX(w, r)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

var csvHeader = []string{"id", "title", "description", "due_date", "status", "priority", "overdue", "created_at", "updated_at"}

// taskRow is one task in csvHeader column order.
func taskRow(t model.Task, now time.Time) []string {
	updated := ""
	if t.UpdatedAt != nil {
		updated = t.UpdatedAt.Format(time.RFC3339)
	}
	return []string{
		t.ID,
		t.Title,
		t.Description,
		t.DueDate.String(),
		string(t.Status),
		string(t.Priority),
		fmt.Sprint(view.IsOverdue(t, now)),
		t.CreatedAt.Format(time.RFC3339),
		updated,
	}
}

func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, t := range r.Tasks {
		_ = cw.Write(taskRow(t, r.GeneratedAt))
	}
	cw.Flush()
	return cw.Error()
}

const (
	tasksSheet = "Tasks"
	statsSheet = "Stats"
)

// writeXLSX writes a Tasks sheet with the CSV columns and a Stats sheet.
func writeXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", tasksSheet); err != nil {
		return err
	}
	rows := [][]string{csvHeader}
	for _, t := range r.Tasks {
		rows = append(rows, taskRow(t, r.GeneratedAt))
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := setRow(f, tasksSheet, i, cells); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}
	s := r.Stats
	for i, row := range [][]interface{}{
		{"Total", s.Total},
		{"Pending", s.Pending},
		{"In progress", s.InProgress},
		{"Done", s.Done},
		{"High priority", s.HighPriority},
		{"Medium priority", s.MediumPriority},
		{"Low priority", s.LowPriority},
		{"Completion rate", s.CompletionRate},
		{"Overdue", s.OverdueCount},
	} {
		if err := setRow(f, statsSheet, i, row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, idx int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, idx+1)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func writePDF(w io.Writer, r Report, o options) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	family := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if o.fontPath != "" {
		family = "report"
		pdf.AddUTF8Font(family, "", o.fontPath)
		pdf.AddUTF8Font(family, "B", o.fontPath)
		if pdf.Err() {
			return fmt.Errorf("load pdf font: %w", pdf.Error())
		}
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(10)
	pdf.SetFont(family, "", 9)
	pdf.Cell(40, 6, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	s := r.Stats
	pdf.SetFont(family, "B", 12)
	pdf.Cell(40, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont(family, "", 10)
	for _, line := range []string{
		fmt.Sprintf("Total tasks: %d", s.Total),
		fmt.Sprintf("Completion rate: %.1f%%", s.CompletionRate),
		fmt.Sprintf("Pending: %d   In progress: %d   Done: %d", s.Pending, s.InProgress, s.Done),
		fmt.Sprintf("High: %d (%.1f%%)   Medium: %d (%.1f%%)   Low: %d (%.1f%%)",
			s.HighPriority, r.PriorityShare.High, s.MediumPriority, r.PriorityShare.Medium, s.LowPriority, r.PriorityShare.Low),
		fmt.Sprintf("Overdue: %d", s.OverdueCount),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont(family, "B", 12)
	pdf.Cell(40, 8, "Tasks")
	pdf.Ln(8)
	pdf.SetFont(family, "", 9)
	for _, t := range r.Tasks {
		line := fmt.Sprintf("%s  [%s/%s]  %s", t.DueDate.String(), t.Status, t.Priority, t.Title)
		if view.IsOverdue(t, r.GeneratedAt) {
			line += "  (overdue)"
		}
		pdf.MultiCell(0, 5, tr(line), "0", "L", false)
	}
	return pdf.Output(w)
}
