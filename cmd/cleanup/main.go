package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tb0023/biz_go_server/config"
	"github.com/tb0023/biz_go_server/internal/model"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually delete anything")
	uploadExpire  = flag.Int("upload-expire", 24, "Hours to keep upload temp directories")
	sessionExpire = flag.Int("session-expire", 90, "Days to keep cancelled advisory sessions")
	cleanUploads  = flag.Bool("clean-uploads", true, "Clean expired upload temp directories")
	cleanSessions = flag.Bool("clean-sessions", true, "Purge old cancelled advisory sessions")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := connectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	uploadDir := cfg.Upload.TempDir
	totalSize := int64(0)
	totalFiles := 0
	deletedSize := int64(0)
	deletedDirs := 0
	purgedRows := int64(0)

	// 1. 清理过期的上传临时目录
	if *cleanUploads {
		log.Printf("\n📦 Cleaning expired upload directories (older than %d hours)...", *uploadExpire)
		size, count := cleanExpiredUploads(uploadDir, *uploadExpire, *dryRun)
		deletedSize += size
		deletedDirs += count
	}

	// 2. 清理早已取消的顾问预约
	if *cleanSessions {
		log.Printf("\n🗓  Purging cancelled advisory sessions (older than %d days)...", *sessionExpire)
		purgedRows = purgeCancelledSessions(db, *sessionExpire, *dryRun)
	}

	// 3. 统计当前占用
	log.Println("\n📈 Scanning current disk usage...")
	filepath.Walk(uploadDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalSize += info.Size()
			totalFiles++
		}
		return nil
	})

	// 输出统计
	log.Println("\n" + strings.Repeat("=", 60))
	log.Println("📊 Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Total files: %d", totalFiles)
	log.Printf("Total size: %s", formatSize(totalSize))
	log.Printf("Deleted dirs: %d", deletedDirs)
	log.Printf("Freed space: %s", formatSize(deletedSize))
	log.Printf("Purged sessions: %d", purgedRows)
	if *dryRun {
		log.Println("\n⚠️  DRY RUN MODE - Nothing was actually deleted")
		log.Println("   Run with -dry-run=false to actually delete")
	} else {
		log.Println("\n✅ Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// cleanExpiredUploads 清理过期的上传临时目录
func cleanExpiredUploads(uploadDir string, expireHours int, dryRun bool) (int64, int) {
	expireTime := time.Now().Add(-time.Duration(expireHours) * time.Hour)
	var totalSize int64
	var count int

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		log.Printf("Failed to read upload dir: %v", err)
		return 0, 0
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dirPath := filepath.Join(uploadDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}

		// 检查是否过期
		if info.ModTime().Before(expireTime) {
			size := getDirSize(dirPath)
			totalSize += size

			log.Printf("  - %s (%.2f MB, %s old)",
				entry.Name(),
				float64(size)/1024/1024,
				time.Since(info.ModTime()).Round(time.Hour))

			if !dryRun {
				if err := os.RemoveAll(dirPath); err != nil {
					log.Printf("    ❌ Failed to delete: %v", err)
				} else {
					count++
				}
			} else {
				count++
			}
		}
	}

	log.Printf("Found %d expired upload directories (total: %s)",
		count, formatSize(totalSize))

	return totalSize, count
}

// purgeCancelledSessions 物理删除早已取消的预约记录
func purgeCancelledSessions(db *gorm.DB, keepDays int, dryRun bool) int64 {
	expireTime := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)

	query := db.Model(&model.AdvisorySession{}).
		Where("status = ? AND updated_at < ?", model.SessionStatusCancelled, expireTime)

	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		log.Printf("Failed to count cancelled sessions: %v", err)
		return 0
	}
	log.Printf("Found %d cancelled sessions older than %d days", matched, keepDays)

	if dryRun || matched == 0 {
		return matched
	}

	result := db.Where("status = ? AND updated_at < ?", model.SessionStatusCancelled, expireTime).
		Delete(&model.AdvisorySession{})
	if result.Error != nil {
		log.Printf("Failed to purge sessions: %v", result.Error)
		return 0
	}
	return result.RowsAffected
}

// getDirSize 计算目录大小
func getDirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

// formatSize 格式化文件大小
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// connectDB 连接数据库
func connectDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
