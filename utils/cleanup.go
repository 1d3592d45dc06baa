package utils

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"complaint-tracking-backend/config"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Generated report files are kept for a day before the scheduler removes them.
const exportFileTTL = 24 * time.Hour

// CleanupExpiredExports removes generated report files older than the TTL.
func CleanupExpiredExports(dir string, ttl time.Duration) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > ttl {
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				config.Logger.Warn("Failed to delete expired export file",
					zap.String("path", path), zap.Error(err))
				continue
			}
			config.Logger.Info("Deleted expired export file", zap.String("path", path))
		}
	}
	return nil
}

// CleanupExpiredCache drops cached export lookups from Redis.
func CleanupExpiredCache(redisClient *redis.Client) error {
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, "export_cache:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			config.Logger.Warn("Failed to delete cache key",
				zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	return iter.Err()
}

// RunScheduledCleanup wires the nightly cleanup jobs.
func RunScheduledCleanup(redisClient *redis.Client) {
	c := cron.New()

	_, err := c.AddFunc("0 2 * * *", func() {
		if err := CleanupExpiredExports(ExportDir, exportFileTTL); err != nil {
			config.Logger.Error("Export cleanup failed", zap.Error(err))
		}
		if err := CleanupExpiredCache(redisClient); err != nil {
			config.Logger.Error("Cache cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		config.Logger.Error("Failed to schedule cleanup job", zap.Error(err))
		return
	}

	c.Start()
	config.Logger.Info("Scheduled cleanup started")
}
