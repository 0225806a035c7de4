// Package excel 学生与成绩表格的导入导出
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// 学生表列名
const (
	ColStudentNumber = "student_number"
	ColName          = "name"
	ColGender        = "gender"
	ColDateOfBirth   = "date_of_birth"
	ColClassName     = "class_name"
	ColEmail         = "email"
	ColPhone         = "phone"
	ColAddress       = "address"
)

// RequiredStudentColumns 导入时必须存在的列
var RequiredStudentColumns = []string{
	ColStudentNumber, ColName, ColGender, ColDateOfBirth, ColClassName, ColEmail, ColPhone,
}

// StudentColumns 导出列顺序
var StudentColumns = append(append([]string{}, RequiredStudentColumns...), ColAddress)

// GradeColumns 成绩导出列顺序
var GradeColumns = []string{
	"student_number", "student_name", "course", "term", "assessment_type", "score", "recorded_at",
}

const (
	studentSheet = "学生信息"
	gradeSheet   = "成绩"
	dateLayout   = "2006-01-02"
	// RecordedAtLayout 成绩录入时间导出格式
	RecordedAtLayout = "2006-01-02 15:04"
)

// MissingColumnsError 表头缺少必填列
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "缺少必填列: " + strings.Join(e.Columns, ", ")
}

// StudentRow 学生表中的一行
type StudentRow struct {
	Line          int // 原始行号（从1开始，含表头）
	StudentNumber string
	Name          string
	Gender        string
	DateOfBirth   string // YYYY-MM-DD；无法识别的日期原样保留
	ClassName     string
	Email         string
	Phone         string
	Address       string
}

// GradeRow 成绩导出行
type GradeRow struct {
	StudentNumber  string
	StudentName    string
	Course         string
	Term           string
	AssessmentType string
	Score          float64
	RecordedAt     time.Time
}

// ReadStudents 读取第一个工作表中的学生数据
func ReadStudents(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("无法读取Excel文件: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MissingColumnsError{Columns: RequiredStudentColumns}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("无法读取工作表: %w", err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Columns: RequiredStudentColumns}
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range RequiredStudentColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result []StudentRow
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		result = append(result, StudentRow{
			Line:          n + 2,
			StudentNumber: cell(row, ColStudentNumber),
			Name:          cell(row, ColName),
			Gender:        cell(row, ColGender),
			DateOfBirth:   normalizeDate(f, cell(row, ColDateOfBirth)),
			ClassName:     cell(row, ColClassName),
			Email:         cell(row, ColEmail),
			Phone:         cell(row, ColPhone),
			Address:       cell(row, ColAddress),
		})
	}
	return result, nil
}

// WriteStudents 写出学生表，列布局与导入一致
func WriteStudents(w io.Writer, rows []StudentRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentSheet); err != nil {
		return err
	}
	if err := setRow(f, studentSheet, 1, toCells(StudentColumns)); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{
			r.StudentNumber, r.Name, r.Gender, r.DateOfBirth, r.ClassName, r.Email, r.Phone, r.Address,
		}
		if err := setRow(f, studentSheet, i+2, values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// WriteGrades 写出成绩表
func WriteGrades(w io.Writer, rows []GradeRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradeSheet); err != nil {
		return err
	}
	if err := setRow(f, gradeSheet, 1, toCells(GradeColumns)); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{
			r.StudentNumber, r.StudentName, r.Course, r.Term, r.AssessmentType, r.Score,
			r.RecordedAt.Format(RecordedAtLayout),
		}
		if err := setRow(f, gradeSheet, i+2, values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, line int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(cols []string) []interface{} {
	cells := make([]interface{}, len(cols))
	for i, c := range cols {
		cells[i] = c
	}
	return cells
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// normalizeDate 日期单元格可能是Excel序列号或常见文本格式
func normalizeDate(f *excelize.File, value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{dateLayout, "2006/01/02", "2006-1-2", "2006/1/2", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(dateLayout)
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		date1904 := false
		if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
			date1904 = *props.Date1904
		}
		if t, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
			return t.Format(dateLayout)
		}
	}
	return value
}
