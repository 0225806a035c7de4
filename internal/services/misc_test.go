package services

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"schoolms/internal/models"
	"schoolms/internal/testutil"
	apperrors "schoolms/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoOrderingAndOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "owner", "pass")
	other := testutil.CreateUser(t, db, "other", "pass")
	svc := NewTodoService(db)

	late := mustDate(t, "2024-06-30")
	soon := mustDate(t, "2024-06-01")
	undated, err := svc.Create(owner.ID, TodoInput{Content: "无截止"})
	require.NoError(t, err)
	_, err = svc.Create(owner.ID, TodoInput{Content: "晚", DueDate: &late})
	require.NoError(t, err)
	_, err = svc.Create(owner.ID, TodoInput{Content: "早", DueDate: &soon})
	require.NoError(t, err)

	pending, err := svc.Pending(owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []string{"早", "晚", "无截止"}, []string{pending[0].Content, pending[1].Content, pending[2].Content})

	err = svc.Complete(other.ID, undated.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	require.NoError(t, svc.Complete(owner.ID, undated.ID))

	counts, err := svc.Counts(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Pending)
	assert.Equal(t, int64(1), counts.Completed)
}

func TestMessageMarkRead(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "reader", "pass")
	other := testutil.CreateUser(t, db, "snoop", "pass")
	svc := NewMessageService(db)

	msg, err := svc.Send(u.ID, "标题", "内容")
	require.NoError(t, err)
	assert.True(t, apperrors.IsKind(svc.MarkRead(other.ID, msg.ID), apperrors.KindForbidden))
	require.NoError(t, svc.MarkRead(u.ID, msg.ID))

	unread, err := svc.ListByUser(u.ID, false, 0)
	require.NoError(t, err)
	assert.Empty(t, unread)
	read, err := svc.ListByUser(u.ID, true, 0)
	require.NoError(t, err)
	assert.Len(t, read, 1)
}

func TestAnnouncementTargetsAndOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author", "pass")
	svc := NewAnnouncementService(db)

	_, err := svc.Create(author.ID, AnnouncementInput{Title: "全体", Content: "c"})
	require.NoError(t, err)
	teachersOnly, err := svc.Create(author.ID, AnnouncementInput{Title: "教师", Content: "c", TargetRoles: []string{models.RoleTeacher}})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, teachersOnly.TargetRoles)
	_, err = svc.Create(author.ID, AnnouncementInput{Title: "置顶", Content: "c", IsPinned: true})
	require.NoError(t, err)

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "置顶", all[0].Title)

	visible, err := svc.VisibleTo([]string{models.RoleStudent})
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	assert.Equal(t, models.TargetAll, joinTargets([]string{models.RoleTeacher, models.TargetAll}))
	assert.Equal(t, "教师,学生", joinTargets([]string{" 教师 ", "学生", ""}))
}

func TestSettingUpsert(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewSettingService(db)

	_, err := svc.Save(SettingInput{Key: "school_name", Value: "  实验中学 "})
	require.NoError(t, err)
	_, err = svc.Save(SettingInput{Key: "school_name", Value: "第一中学", Description: "学校名称"})
	require.NoError(t, err)

	settings, err := svc.List()
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "第一中学", settings[0].Value)

	value, err := svc.Get("missing", "默认")
	require.NoError(t, err)
	assert.Equal(t, "默认", value)
}

func TestBackupWritesSnapshot(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "admin", "pass")
	newClass(t, db, "备份班")
	dir := t.TempDir()
	svc := NewBackupService(db, dir)

	backup, err := svc.Create(&u.ID)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^backup_\d{14}_[0-9a-f-]{36}\.json$`), backup.Filename)

	data, err := os.ReadFile(filepath.Join(dir, backup.Filename))
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.Classrooms, 1)
	assert.Equal(t, "备份班", snap.Classrooms[0].Name)

	got, err := svc.GetByID(backup.ID)
	require.NoError(t, err)
	assert.Equal(t, backup.FilePath, got.FilePath)

	require.NoError(t, os.Remove(backup.FilePath))
	_, err = svc.GetByID(backup.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func multipartHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestUploadSaveNamesFile(t *testing.T) {
	db := testutil.NewDB(t)
	dir := t.TempDir()
	svc := NewUploadService(db, dir)

	rel, err := svc.Save(multipartHeader(t, "photo.PNG", "png-bytes"), "avatars", nil, ImageExtensions...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "avatars/"))
	assert.Regexp(t, regexp.MustCompile(`^avatars/\d{14}_[0-9a-f-]{36}_photo\.PNG$`), rel)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	var record models.UploadedFile
	require.NoError(t, db.First(&record).Error)
	assert.Equal(t, int64(len("png-bytes")), record.Size)

	_, err = svc.Save(multipartHeader(t, "script.sh", "x"), "avatars", nil, ImageExtensions...)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestDashboardSummaryCountsTeacherRecords(t *testing.T) {
	db := testutil.NewDB(t)
	roles := testutil.SeedRBAC(t, db)
	viewer := testutil.CreateUser(t, db, "viewer", "pass", roles[models.RoleTeacher])
	newRoster(t, db, 2)
	_, err := NewTeacherService(db).Create(TeacherInput{EmployeeNumber: "T900", Name: "李老师"})
	require.NoError(t, err)

	svc := NewDashboardService(db)
	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, DashboardSummary{Students: 2, Classes: 1, Teachers: 1, Courses: 1}, *summary)

	data, err := svc.Load(viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, *summary, data.Summary)
	assert.Empty(t, data.Todos)
}
