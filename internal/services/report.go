package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/models"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// ReportFormat selects the export rendering.
type ReportFormat string

const (
	ReportText  ReportFormat = "txt"
	ReportExcel ReportFormat = "xlsx"
)

// ContentType is the MIME type of the rendered report.
func (f ReportFormat) ContentType() string {
	if f == ReportExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt", "text":
		return ReportText, nil
	case "xlsx", "excel":
		return ReportExcel, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// ReportFilename names a download after the uploaded file, e.g.
// "CareerSpark_Report_jane_doe.txt".
func ReportFilename(filename string, format ReportFormat) string {
	base := strings.SplitN(filename, ".", 2)[0]
	if base == "" {
		base = "resume"
	}
	return fmt.Sprintf("CareerSpark_Report_%s.%s", base, format)
}

// RenderReport renders a saved record in the requested format.
func RenderReport(resume *models.Resume, format ReportFormat) ([]byte, error) {
	switch format {
	case ReportText:
		return []byte(RenderTextReport(resume)), nil
	case ReportExcel:
		return RenderExcelReport(resume)
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

// RenderTextReport produces the plain text download of an analysis.
func RenderTextReport(resume *models.Resume) string {
	var b strings.Builder

	b.WriteString("CAREERSPARK AI - RESUME ANALYSIS REPORT\n")
	b.WriteString("========================================\n\n")
	fmt.Fprintf(&b, "Filename: %s\n", resume.Filename)
	fmt.Fprintf(&b, "Analyzed On: %s\n\n", resume.CreatedAt.Format(reportTimeLayout))
	fmt.Fprintf(&b, "--- OVERALL SCORE: %d/100 ---\n\n", resume.Score)

	b.WriteString("--- EXPERIENCE ---\n")
	fmt.Fprintf(&b, "Level: %s\n", resume.ExperienceLevel)
	fmt.Fprintf(&b, "Total Years: %s\n\n", formatYears(resume.TotalExperience))

	fmt.Fprintf(&b, "--- SKILLS (%d) ---\n", len(resume.Skills))
	for _, s := range resume.Skills {
		fmt.Fprintf(&b, "- %s (Category: %s, Confidence: %d%%)\n", s.Name, s.Category, confidencePercent(s.Confidence))
	}
	b.WriteString("\n")

	b.WriteString("--- ACTIONABLE FEEDBACK ---\n")
	for i, fb := range resume.Feedback {
		fmt.Fprintf(&b, "%d. %s\n", i+1, fb.Suggestion)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "--- MATCHED JOBS (%d) ---\n", len(resume.MatchedJobs))
	for _, job := range resume.MatchedJobs {
		b.WriteString("----------------------------------------\n")
		fmt.Fprintf(&b, "Title: %s\n", job.Title)
		fmt.Fprintf(&b, "Company: %s\n", job.Company)
		fmt.Fprintf(&b, "Location: %s\n", job.Location)
		fmt.Fprintf(&b, "Match: %d%%\n", job.MatchPercentage)
		fmt.Fprintf(&b, "Salary: %s\n", job.SalaryRange)
		fmt.Fprintf(&b, "Experience: %s\n", job.ExperienceRequired)
		fmt.Fprintf(&b, "Type: %s\n", job.JobType)
		fmt.Fprintf(&b, "Apply: %s\n", job.ApplyURL)
	}

	return b.String()
}

// RenderExcelReport produces a workbook with one sheet per section.
func RenderExcelReport(resume *models.Resume) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	skillsSheet := "Skills"
	feedbackSheet := "Feedback"
	jobsSheet := "Matched Jobs"

	f.SetSheetName("Sheet1", summarySheet)
	for _, name := range []string{skillsSheet, feedbackSheet, jobsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	// Summary
	f.SetColWidth(summarySheet, "A", "A", 20)
	f.SetColWidth(summarySheet, "B", "B", 50)
	summary := [][2]any{
		{"Filename", resume.Filename},
		{"Analyzed On", resume.CreatedAt.Format(reportTimeLayout)},
		{"Overall Score", resume.Score},
		{"Experience Level", resume.ExperienceLevel},
		{"Total Years", resume.TotalExperience},
		{"Target Job Titles", strings.Join(resume.JobTitles, ", ")},
	}
	for i, row := range summary {
		label := fmt.Sprintf("A%d", i+1)
		f.SetCellValue(summarySheet, label, row[0])
		f.SetCellStyle(summarySheet, label, label, labelStyle)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}

	// Skills
	writeHeader(f, skillsSheet, headerStyle, "Skill", "Category", "Confidence %")
	for i, s := range resume.Skills {
		row := i + 2
		f.SetCellValue(skillsSheet, fmt.Sprintf("A%d", row), s.Name)
		f.SetCellValue(skillsSheet, fmt.Sprintf("B%d", row), string(s.Category))
		f.SetCellValue(skillsSheet, fmt.Sprintf("C%d", row), confidencePercent(s.Confidence))
	}

	// Feedback
	writeHeader(f, feedbackSheet, headerStyle, "#", "Suggestion")
	f.SetColWidth(feedbackSheet, "B", "B", 100)
	for i, fb := range resume.Feedback {
		row := i + 2
		f.SetCellValue(feedbackSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(feedbackSheet, fmt.Sprintf("B%d", row), fb.Suggestion)
	}

	// Matched jobs
	writeHeader(f, jobsSheet, headerStyle, "Title", "Company", "Location", "Match %", "Salary", "Experience", "Type", "Apply URL")
	for i, job := range resume.MatchedJobs {
		row := i + 2
		values := []any{job.Title, job.Company, job.Location, job.MatchPercentage, job.SalaryRange, job.ExperienceRequired, job.JobType, job.ApplyURL}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(jobsSheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	last, _ := excelize.ColumnNumberToName(len(titles))
	f.SetColWidth(sheet, "A", last, 22)
}

func confidencePercent(c float64) int {
	return int(math.Round(c * 100))
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}
