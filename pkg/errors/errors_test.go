package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("", map[string]string{"name": "姓名不能为空"}), http.StatusBadRequest},
		{"conflict", Conflict("学号已存在"), http.StatusBadRequest},
		{"format", Format("缺少必填列: name"), http.StatusBadRequest},
		{"not found", NotFound("学生不存在"), http.StatusNotFound},
		{"unauthorized", Unauthorized("请先登录"), http.StatusUnauthorized},
		{"forbidden", Forbidden("权限不足"), http.StatusForbidden},
		{"wrapped", fmt.Errorf("save: %w", Conflict("学号已存在")), http.StatusBadRequest},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "学号已存在", Conflict("学号已存在").Error())
	assert.Equal(t, "姓名不能为空", Validation("", map[string]string{"name": "姓名不能为空"}).Error())
	assert.Equal(t, "第2行: 日期错误", Format("", "第2行: 日期错误").Error())

	err := Format("导入失败", "第2行: 日期错误")
	assert.Equal(t, []string{"导入失败", "第2行: 日期错误"}, err.Messages())
	assert.True(t, IsKind(err, KindFormat))
	assert.False(t, IsKind(err, KindConflict))
}
