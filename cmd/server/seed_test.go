package main

import (
	"testing"

	"schoolms/internal/models"
	"schoolms/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDataIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, seedData(db))
	require.NoError(t, seedData(db))

	var permCount, roleCount, userCount int64
	db.Model(&models.Permission{}).Count(&permCount)
	db.Model(&models.Role{}).Count(&roleCount)
	db.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, len(models.DefaultPermissions()), permCount)
	assert.EqualValues(t, 3, roleCount)
	assert.EqualValues(t, 1, userCount)

	var admin models.User
	require.NoError(t, db.Preload("Roles.Permissions").Where("username = ?", defaultAdminUsername).First(&admin).Error)
	assert.True(t, admin.FirstLogin)
	assert.True(t, admin.CheckPassword(defaultAdminPassword))
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, models.RoleAdmin, admin.Roles[0].Name)
	assert.Len(t, admin.Roles[0].Permissions, len(models.DefaultPermissions()))
}

func TestSeedKeepsAdjustedRoleGrants(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, seedData(db))

	var teacher models.Role
	require.NoError(t, db.Where("name = ?", models.RoleTeacher).First(&teacher).Error)
	require.NoError(t, db.Model(&teacher).Association("Permissions").Clear())

	require.NoError(t, seedData(db))
	assert.Zero(t, db.Model(&teacher).Association("Permissions").Count())
}
