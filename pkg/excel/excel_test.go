package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestStudentsRoundTrip(t *testing.T) {
	rows := []StudentRow{
		{StudentNumber: "S001", Name: "张三", Gender: "男", DateOfBirth: "2010-05-01", ClassName: "一班", Email: "a@x.com", Phone: "13800000001", Address: "北京"},
		{StudentNumber: "S002", Name: "李四", Gender: "女", DateOfBirth: "2011-01-20", ClassName: "", Email: "b@x.com", Phone: "13800000002"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudents(&buf, rows))

	got, err := ReadStudents(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range rows {
		want := rows[i]
		want.Line = i + 2
		assert.Equal(t, want, got[i])
	}
}

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadStudentsMissingColumns(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"student_number", "name", "gender", "class_name", "phone"},
		{"S001", "张三", "男", "一班", "138"},
	})

	_, err := ReadStudents(buf)
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{ColDateOfBirth, ColEmail}, missing.Columns)
	assert.Equal(t, "缺少必填列: date_of_birth, email", err.Error())
}

func TestReadStudentsSkipsBlankRowsAndNormalizesDates(t *testing.T) {
	f := excelize.NewFile()
	header := []interface{}{"Student_Number", "name", "gender", "date_of_birth", "class_name", "email", "phone"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	first := []interface{}{"S001", "张三", "男", "2010/5/1", "一班", "a@x.com", "138"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &first))
	second := []interface{}{"S002", "李四", "女", time.Date(2011, 1, 20, 0, 0, 0, 0, time.UTC), "一班", "b@x.com", "139"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &second))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	got, err := ReadStudents(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2010-05-01", got[0].DateOfBirth)
	assert.Equal(t, "", got[0].Address)
	assert.Equal(t, 4, got[1].Line)
	assert.Equal(t, "2011-01-20", got[1].DateOfBirth)
}

func TestWriteGrades(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGrades(&buf, []GradeRow{{
		StudentNumber: "S001", StudentName: "张三", Course: "数学", Term: "2023-2024",
		AssessmentType: "期末", Score: 92.5, RecordedAt: time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(gradeSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, GradeColumns, rows[0])
	assert.Equal(t, "2024-01-10 09:30", rows[1][6])
	assert.Equal(t, "92.5", rows[1][5])
}
