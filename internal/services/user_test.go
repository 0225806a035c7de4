package services

import (
	"context"
	"testing"
	"time"

	"schoolms/internal/models"
	"schoolms/internal/testutil"
	apperrors "schoolms/pkg/errors"
	"schoolms/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedRBAC(t, db)
	svc := NewUserService(db, nil)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1", RoleName: models.RoleStudent})
	require.NoError(t, err)
	assert.True(t, user.FirstLogin)
	assert.True(t, user.IsActive)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret1", RoleName: models.RoleStudent})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = svc.Register(RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", RoleName: models.RoleAdmin})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	got, err := svc.Authenticate("alice", "secret1")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)

	_, errWrong := svc.Authenticate("alice", "nope")
	_, errUnknown := svc.Authenticate("nobody", "secret1")
	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())

	require.NoError(t, svc.SetActive(user.ID, false))
	_, err = svc.Authenticate("alice", "secret1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestChangePasswordAndProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(db, nil)
	u := testutil.CreateUser(t, db, "carol", "old-pass")
	testutil.CreateUser(t, db, "dave", "pass")

	err := svc.ChangePassword(u.ID, "wrong", "new-pass")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	require.NoError(t, svc.ChangePassword(u.ID, "old-pass", "new-pass"))
	_, err = svc.Authenticate("carol", "new-pass")
	require.NoError(t, err)

	// 保持原邮箱不算冲突
	_, err = svc.UpdateProfile(u.ID, ProfileInput{Email: "carol@example.com", Phone: "123"})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(u.ID, ProfileInput{Email: "dave@example.com"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestPasswordResetLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "erin", "old-pass")
	auth := NewAuthService(db, jwt.NewJWTManager("secret", time.Hour), time.Hour)

	_, err := auth.ForgotPassword("missing@example.com")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	token, err := auth.ForgotPassword("erin@example.com")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, u.ID).Error)
	require.NotNil(t, stored.ResetToken)
	assert.Equal(t, token, *stored.ResetToken)

	require.NoError(t, auth.ResetPassword(token, "brand-new"))

	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.Nil(t, stored.ResetToken)
	assert.False(t, stored.FirstLogin)
	assert.True(t, stored.CheckPassword("brand-new"))

	// 保存的令牌已清除，同一令牌不能再次使用
	err = auth.ResetPassword(token, "again")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	err = auth.ResetPassword("garbage", "again")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

type memoryCache struct {
	codes       map[uint][]string
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{codes: map[uint][]string{}}
}

func (m *memoryCache) Get(_ context.Context, userID uint) ([]string, bool, error) {
	codes, ok := m.codes[userID]
	return codes, ok, nil
}

func (m *memoryCache) Set(_ context.Context, userID uint, codes []string) error {
	m.codes[userID] = codes
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, userIDs ...uint) error {
	for _, id := range userIDs {
		delete(m.codes, id)
		m.invalidated = append(m.invalidated, id)
	}
	return nil
}

func TestPrincipalLoadAndCache(t *testing.T) {
	db := testutil.NewDB(t)
	roles := testutil.SeedRBAC(t, db)
	u := testutil.CreateUser(t, db, "frank", "pass", roles[models.RoleTeacher])
	cache := newMemoryCache()
	svc := NewPrincipalService(db, cache)

	p, err := svc.Load(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Can(models.PermGradesManage))
	assert.False(t, p.Can(models.PermSettingsManage))
	assert.Contains(t, cache.codes, u.ID)

	users := NewUserService(db, cache)
	_, err = users.AssignRoles(u.ID, []uint{roles[models.RoleAdmin].ID})
	require.NoError(t, err)
	assert.NotContains(t, cache.codes, u.ID)

	p, err = svc.Load(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, p.Can(models.PermSettingsManage))

	missing, err := svc.Load(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, users.SetActive(u.ID, false))
	inactive, err := svc.Load(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, inactive)
}

func TestRoleDeleteRefusedWhileAssigned(t *testing.T) {
	db := testutil.NewDB(t)
	roles := testutil.SeedRBAC(t, db)
	testutil.CreateUser(t, db, "grace", "pass", roles[models.RoleTeacher])
	svc := NewRoleService(db, nil)

	err := svc.Delete(roles[models.RoleTeacher].ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	role, err := svc.Create(RoleInput{Name: "访客"})
	require.NoError(t, err)
	_, err = svc.Create(RoleInput{Name: "访客"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// 名称不变时更新不冲突
	_, err = svc.Update(role.ID, RoleInput{Name: "访客", Description: "只读"})
	require.NoError(t, err)
	_, err = svc.Update(role.ID, RoleInput{Name: models.RoleAdmin})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	require.NoError(t, svc.Delete(role.ID))
	_, err = svc.GetByID(role.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAssignPermissionsInvalidatesHolders(t *testing.T) {
	db := testutil.NewDB(t)
	roles := testutil.SeedRBAC(t, db)
	u := testutil.CreateUser(t, db, "heidi", "pass", roles[models.RoleStudent])
	cache := newMemoryCache()
	cache.codes[u.ID] = []string{"stale"}

	perms, err := NewPermissionService(db).List()
	require.NoError(t, err)
	var ids []uint
	for _, p := range perms {
		if p.Code == models.PermGradesManage {
			ids = append(ids, p.ID)
		}
	}

	role, err := NewRoleService(db, cache).AssignPermissions(roles[models.RoleStudent].ID, ids)
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)
	assert.Equal(t, models.PermGradesManage, role.Permissions[0].Code)
	assert.Contains(t, cache.invalidated, u.ID)
}
