package database

import (
	"context"
	"sync"
	"time"

	"schoolms/pkg/cache"
	"schoolms/pkg/config"
	"schoolms/pkg/logger"
)

var (
	permissionCache     *cache.RedisCache
	permissionCacheOnce sync.Once
)

// GetPermissionCache 获取权限缓存单例；未启用或Redis不可用时返回nil
func GetPermissionCache() cache.PermissionCache {
	permissionCacheOnce.Do(func() {
		cfg := config.GetConfig()
		if !cfg.Redis.Enabled {
			return
		}
		c := cache.NewRedisCache(&cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.CacheTTL,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			logger.GetLogger().Warnf("Redis unavailable, permission cache disabled: %v", err)
			_ = c.Close()
			return
		}
		permissionCache = c
	})
	if permissionCache == nil {
		return nil
	}
	return permissionCache
}

// ClosePermissionCache 关闭Redis连接
func ClosePermissionCache() error {
	if permissionCache != nil {
		return permissionCache.Close()
	}
	return nil
}
