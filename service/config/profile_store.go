/*
 * @module service/config/profile_store
 * @description 对账档案仓库，负责档案加载、档案校验和热重载，每个业务变体一份YAML档案
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 档案目录扫描 -> YAML解析 -> 档案校验 -> 内存仓库
 * @rules 档案名必须唯一；校验失败的档案整体拒绝加载，不做部分生效
 * @dependencies gopkg.in/yaml.v3, service/models, service/meta
 * @refs service/reconciliation, service/scheduler, api/controllers
 */

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

// ProfileStore 对账档案仓库
type ProfileStore struct {
	dir      string
	profiles map[string]*models.ReconciliationProfile
	mutex    sync.RWMutex
}

// NewProfileStore 创建档案仓库实例，dir是存放*.yaml档案的目录
func NewProfileStore(dir string) *ProfileStore {
	return &ProfileStore{
		dir:      dir,
		profiles: make(map[string]*models.ReconciliationProfile),
	}
}

// Load 扫描档案目录并加载全部档案，任一档案校验失败即整体失败
func (s *ProfileStore) Load() error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("扫描档案目录失败: %w", err)
	}
	more, err := filepath.Glob(filepath.Join(s.dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("扫描档案目录失败: %w", err)
	}
	paths = append(paths, more...)
	sort.Strings(paths)

	loaded := make(map[string]*models.ReconciliationProfile, len(paths))
	for _, path := range paths {
		profile, err := loadProfileFile(path)
		if err != nil {
			return err
		}
		if _, exists := loaded[profile.Name]; exists {
			return fmt.Errorf("档案名重复: %s (%s)", profile.Name, path)
		}
		loaded[profile.Name] = profile
	}

	s.mutex.Lock()
	s.profiles = loaded
	s.mutex.Unlock()

	slog.Info("对账档案加载完成", "dir", s.dir, "count", len(loaded))
	return nil
}

// Reload 重新加载档案目录
func (s *ProfileStore) Reload() error {
	return s.Load()
}

// Get 按名称获取档案
func (s *ProfileStore) Get(name string) (*models.ReconciliationProfile, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	profile, ok := s.profiles[name]
	return profile, ok
}

// List 返回全部档案，按名称排序
func (s *ProfileStore) List() []*models.ReconciliationProfile {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	list := make([]*models.ReconciliationProfile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		list = append(list, profile)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// loadProfileFile 加载并校验单个档案文件
func loadProfileFile(path string) (*models.ReconciliationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取档案文件失败: %w", err)
	}

	profile := &models.ReconciliationProfile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("解析档案文件失败 %s: %w", path, err)
	}

	if err := ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("档案校验失败 %s: %w", path, err)
	}
	return profile, nil
}

// ValidateProfile 校验档案的结构完整性
func ValidateProfile(profile *models.ReconciliationProfile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("档案名不能为空")
	}
	if profile.SourceFile.Path == "" {
		return fmt.Errorf("数据源文件路径不能为空")
	}
	if profile.AgencyFile.Path == "" {
		return fmt.Errorf("机构文件路径不能为空")
	}

	if err := validateDatasetRules("source", profile.Source); err != nil {
		return err
	}
	if err := validateDatasetRules("agency", profile.Agency); err != nil {
		return err
	}

	if len(profile.Layout.Columns) == 0 {
		return fmt.Errorf("导出布局至少需要一列")
	}
	seen := make(map[string]struct{}, len(profile.Layout.Columns))
	for _, column := range profile.Layout.Columns {
		if column.Output == "" {
			return fmt.Errorf("导出布局列缺少输出名")
		}
		if _, dup := seen[column.Output]; dup {
			return fmt.Errorf("导出布局输出名重复: %s", column.Output)
		}
		seen[column.Output] = struct{}{}
	}
	if profile.Layout.KeyColumn != "" {
		if _, ok := seen[profile.Layout.KeyColumn]; !ok {
			return fmt.Errorf("键列 %s 不在导出布局中", profile.Layout.KeyColumn)
		}
	}
	if profile.Layout.CreditorColumn != "" && profile.Layout.CreditorTaxID == "" {
		return fmt.Errorf("配置了债权方列但缺少债权方税号")
	}

	if profile.CronExpr != "" && len(strings.Fields(profile.CronExpr)) < 5 {
		return fmt.Errorf("调度表达式无效: %s", profile.CronExpr)
	}
	return nil
}

func validateDatasetRules(role string, rules models.DatasetRules) error {
	if len(rules.KeyRule.Fields) == 0 {
		return fmt.Errorf("%s 的键组合规则至少需要一个字段", role)
	}
	if len(rules.KeyRule.Fields) > 1 && rules.KeyRule.Separator == "" {
		return fmt.Errorf("%s 的多字段键需要分隔符", role)
	}
	if rules.Validation.KeyPattern != "" {
		if _, err := regexp.Compile(rules.Validation.KeyPattern); err != nil {
			return fmt.Errorf("%s 的键格式正则无效: %w", role, err)
		}
	}
	if rules.Validation.DuplicatePolicy != "" && !meta.IsValidDuplicatePolicy(rules.Validation.DuplicatePolicy) {
		return fmt.Errorf("%s 的重复键策略无效: %s", role, rules.Validation.DuplicatePolicy)
	}
	return nil
}
