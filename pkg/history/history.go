package history

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ati1707/renpy-img-prune/pkg/logger"
)

// ScanRecord 一次扫描的记录
type ScanRecord struct {
	ID             string    `gorm:"primaryKey"`
	ImagesRoot     string    `gorm:"not null"`
	ScriptsRoot    string    `gorm:"not null"`
	KeyMode        string    `gorm:"not null"`
	ImageCount     int       `gorm:"not null"`
	ReferenceCount int       `gorm:"not null"`
	UnusedCount    int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (ScanRecord) TableName() string {
	return "scans"
}

// DeletionRecord 单个文件的删除记录
type DeletionRecord struct {
	ID        int64     `gorm:"primaryKey"`
	ScanID    string    `gorm:"index;not null"`
	FilePath  string    `gorm:"not null"`
	Key       string    `gorm:"not null"`
	Hash      string    // 删除前计算的内容哈希，可为空
	FileSize  int64     `gorm:"not null"`
	DeletedAt time.Time `gorm:"not null"`
}

func (DeletionRecord) TableName() string {
	return "deletions"
}

// History 扫描与删除的审计存储
type History struct {
	db *gorm.DB
}

// New 打开（必要时创建）历史数据库
func New(dbPath string) (*History, error) {
	expandedPath, err := expandPath(dbPath)
	if err != nil {
		logger.Get().Error().Err(err).Msg("扩展数据库路径失败")
		return nil, err
	}

	logger.Get().Debug().Msgf("初始化历史数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		logger.Get().Error().Err(err).Msgf("创建数据库目录失败: %s", filepath.Dir(expandedPath))
		return nil, err
	}

	dsn := expandedPath + "?_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Get().Error().Err(err).Msg("打开数据库连接失败")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&ScanRecord{}, &DeletionRecord{}); err != nil {
		logger.Get().Error().Err(err).Msg("创建数据库表失败")
		return nil, err
	}

	return &History{db: db}, nil
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// RecordScan 写入一条扫描记录
func (h *History) RecordScan(record *ScanRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := h.db.Create(record).Error; err != nil {
		logger.Get().Error().Err(err).Msgf("写入扫描记录失败: %s", record.ID)
		return err
	}
	return nil
}

// RecordDeletions 批量写入删除记录
func (h *History) RecordDeletions(records []DeletionRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	for i := range records {
		if records[i].DeletedAt.IsZero() {
			records[i].DeletedAt = now
		}
	}
	if err := h.db.Create(&records).Error; err != nil {
		logger.Get().Error().Err(err).Msgf("写入删除记录失败，共 %d 条", len(records))
		return err
	}
	return nil
}

// RecentScans 返回最近的扫描记录，按时间倒序
func (h *History) RecentScans(limit int) ([]ScanRecord, error) {
	var records []ScanRecord
	err := h.db.Order("created_at desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeletionsForScan 返回某次扫描的全部删除记录
func (h *History) DeletionsForScan(scanID string) ([]DeletionRecord, error) {
	var records []DeletionRecord
	err := h.db.Where("scan_id = ?", scanID).Order("file_path").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close 关闭数据库连接
func (h *History) Close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
