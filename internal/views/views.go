// Package views 内嵌的页面模板与静态资源
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"schoolms/internal/authz"
	"schoolms/internal/models"

	"gorm.io/datatypes"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static 静态资源目录
func Static() fs.FS {
	sub, _ := fs.Sub(staticFS, "static")
	return sub
}

var statusLabels = map[string]string{
	models.AttendancePresent: "出勤",
	models.AttendanceAbsent:  "缺勤",
	models.AttendanceLeave:   "请假",
	models.AttendanceLate:    "迟到",
	models.LeavePending:      "待审批",
	models.LeaveApproved:     "已批准",
	models.LeaveRejected:     "已驳回",
}

// Funcs 模板函数
var Funcs = template.FuncMap{
	"date": func(d datatypes.Date) string { return models.FormatDate(d) },
	"datePtr": func(d *datatypes.Date) string {
		if d == nil {
			return ""
		}
		return models.FormatDate(*d)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"timePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"clock": func(t datatypes.Time) string {
		s := t.String()
		if len(s) >= 5 {
			return s[:5]
		}
		return s
	},
	"can":    authz.HasPermission,
	"active": func(path, endpoint string) bool { return endpoint != "" && (path == endpoint || endpoint != "/" && strings.HasPrefix(path, endpoint+"/")) },
	"status": func(s string) string {
		if label, ok := statusLabels[s]; ok {
			return label
		}
		return s
	},
	"join":     strings.Join,
	"add":      func(a, b int) int { return a + b },
	"sub":      func(a, b int) int { return a - b },
	"weekdays": func() []string { return models.WeekdayNames },
	"statuses": func() []string { return models.AttendanceStatuses },
	"fmtScore": func(f float64) string { return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(f, 'f', 2, 64), "0"), ".") },
	"dict":     dict,
	"derefID": func(id *uint) uint {
		if id == nil {
			return 0
		}
		return *id
	},
}

// dict 组装传给子模板的参数，键值成对出现
func dict(pairs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if key, ok := pairs[i].(string); ok {
			m[key] = pairs[i+1]
		}
	}
	return m
}

// Load 解析全部页面模板
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(templateFS, "templates/*.html")
}
