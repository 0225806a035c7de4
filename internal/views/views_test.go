package views

import (
	"bytes"
	"io/fs"
	"testing"

	"schoolms/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesAllPages(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{"error.html", "auth_login.html", "students_list.html", "grades_entry.html", "settings_users.html"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
	for _, partial := range []string{"header", "footer", "menu", "field", "pager", "settings_nav"} {
		assert.NotNil(t, tmpl.Lookup(partial), partial)
	}
}

func TestErrorPageRendersAnonymously(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "error.html", map[string]interface{}{
		"Title": "404", "Status": 404, "Message": "页面不存在",
	}))
	assert.Contains(t, buf.String(), "页面不存在")
	assert.NotContains(t, buf.String(), "sidebar")
}

func TestStaticContainsStylesheet(t *testing.T) {
	_, err := fs.Stat(Static(), "app.css")
	assert.NoError(t, err)
}

func TestFuncs(t *testing.T) {
	active := Funcs["active"].(func(string, string) bool)
	assert.True(t, active("/", "/"))
	assert.False(t, active("/students", "/"))
	assert.True(t, active("/students/3", "/students"))
	assert.False(t, active("/studentsx", "/students"))

	fmtScore := Funcs["fmtScore"].(func(float64) string)
	assert.Equal(t, "90", fmtScore(90))
	assert.Equal(t, "87.5", fmtScore(87.5))

	status := Funcs["status"].(func(string) string)
	assert.Equal(t, "出勤", status(models.AttendancePresent))
	assert.Equal(t, "unknown", status("unknown"))

	d := dict("Label", "姓名", "Name", "name", 3)
	assert.Equal(t, "姓名", d["Label"])
	assert.Len(t, d, 2)
}
