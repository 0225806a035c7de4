package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"schoolms/internal/models"
	"schoolms/internal/services"
	"schoolms/pkg/excel"

	"github.com/gin-gonic/gin"
)

// gradeSheet 录入表的选择条件
type gradeSheet struct {
	ClassID        *uint
	CourseID       *uint
	Term           string
	AssessmentType string
}

func readGradeSheet(get func(string) string) gradeSheet {
	sheet := gradeSheet{
		Term:           strings.TrimSpace(get("term")),
		AssessmentType: strings.TrimSpace(get("assessment_type")),
	}
	sheet.ClassID = parseID(get("class_id"))
	sheet.CourseID = parseID(get("course_id"))
	if sheet.Term == "" {
		sheet.Term = models.DefaultTerm
	}
	if sheet.AssessmentType == "" {
		sheet.AssessmentType = models.DefaultAssessmentType
	}
	return sheet
}

// renderGradeEntry 渲染录入表。scores/remarks 为 nil 时回填已有成绩
func (h *Handler) renderGradeEntry(c *gin.Context, status int, sheet gradeSheet, scores, remarks map[uint]string, data gin.H) {
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/grades/search")
		return
	}
	courses, err := h.svc.Courses.List(services.CourseFilter{})
	if err != nil {
		h.fail(c, err, "/grades/search")
		return
	}

	var students []models.Student
	if sheet.ClassID != nil && sheet.CourseID != nil {
		if students, err = h.svc.Students.FindByClass(*sheet.ClassID); err != nil {
			h.fail(c, err, "/grades/search")
			return
		}
		if scores == nil {
			existing, err := h.svc.Grades.Existing(*sheet.CourseID, sheet.Term, sheet.AssessmentType)
			if err != nil {
				h.fail(c, err, "/grades/search")
				return
			}
			scores = make(map[uint]string, len(existing))
			remarks = make(map[uint]string, len(existing))
			for id, r := range existing {
				scores[id] = fmt.Sprint(r.Score)
				remarks[id] = r.Remark
			}
		}
	}

	data["Title"] = "成绩录入"
	data["Classes"] = classes
	data["Courses"] = courses
	data["Sheet"] = sheet
	data["Students"] = students
	data["Scores"] = scores
	data["Remarks"] = remarks
	h.render(c, status, "grades_entry.html", data)
}

// GradeEntryPage 按班级、课程、学期、考核类型展示录入表
func (h *Handler) GradeEntryPage(c *gin.Context) {
	h.renderGradeEntry(c, http.StatusOK, readGradeSheet(c.Query), nil, nil, gin.H{})
}

// SaveGrades 保存整张录入表，存在无效成绩时整批不保存
func (h *Handler) SaveGrades(c *gin.Context) {
	sheet := readGradeSheet(c.PostForm)
	back := "/grades/entry"
	if sheet.CourseID == nil || sheet.ClassID == nil {
		h.redirect(c, back, "warning", "请先选择班级和课程")
		return
	}
	scores := prefixedValues(c, "score_")
	remarks := prefixedValues(c, "remark_")
	saved, err := h.svc.Grades.BatchSave(services.GradeBatch{
		CourseID:       *sheet.CourseID,
		Term:           sheet.Term,
		AssessmentType: sheet.AssessmentType,
		Scores:         scores,
		Remarks:        remarks,
	})
	if err != nil {
		data := gin.H{}
		if status, ok := h.formFailed(c, err, data); ok {
			h.renderGradeEntry(c, status, sheet, scores, remarks, data)
		}
		return
	}

	query := url.Values{}
	query.Set("class_id", fmt.Sprint(*sheet.ClassID))
	query.Set("course_id", fmt.Sprint(*sheet.CourseID))
	query.Set("term", sheet.Term)
	query.Set("assessment_type", sheet.AssessmentType)
	h.redirect(c, back+"?"+query.Encode(), "success", fmt.Sprintf("已保存 %d 条成绩", saved))
}

func gradeFilter(c *gin.Context) services.GradeFilter {
	return services.GradeFilter{
		ClassID:  queryID(c, "class_id"),
		CourseID: queryID(c, "course_id"),
		Term:     c.Query("term"),
		Keyword:  c.Query("q"),
	}
}

// ListGrades 成绩查询
func (h *Handler) ListGrades(c *gin.Context) {
	filter := gradeFilter(c)
	records, err := h.svc.Grades.Search(filter)
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	classes, err := h.svc.Classes.All()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	courses, err := h.svc.Courses.List(services.CourseFilter{})
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	terms, err := h.svc.Grades.Terms()
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "grades_list.html", gin.H{
		"Title":    "成绩查询",
		"Records":  records,
		"Classes":  classes,
		"Courses":  courses,
		"Terms":    terms,
		"Filter":   filter,
		"RawQuery": c.Request.URL.RawQuery,
	})
}

// GradeStatistics 课程与班级成绩统计
func (h *Handler) GradeStatistics(c *gin.Context) {
	byCourse, err := h.svc.Grades.CourseStatistics(0)
	if err != nil {
		h.fail(c, err, "/grades/search")
		return
	}
	byClass, err := h.svc.Grades.ClassStatistics()
	if err != nil {
		h.fail(c, err, "/grades/search")
		return
	}
	h.render(c, http.StatusOK, "grades_statistics.html", gin.H{
		"Title":    "成绩统计",
		"ByCourse": byCourse,
		"ByClass":  byClass,
	})
}

// ExportGrades 按当前查询条件导出成绩
func (h *Handler) ExportGrades(c *gin.Context) {
	rows, err := h.svc.Grades.ExportRows(gradeFilter(c))
	if err != nil {
		h.fail(c, err, "/grades/search")
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="grades.xlsx"`)
	if err := excel.WriteGrades(c.Writer, rows); err != nil {
		h.fail(c, err, "/grades/search")
	}
}
