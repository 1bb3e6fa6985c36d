/*
 * @module service/runledger/ledger_service
 * @description 对账运行台账服务，负责运行记录的创建、完成回写与历史查询
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 运行创建(running) -> 引擎执行 -> 完成回写(succeeded/failed) -> 历史查询
 * @rules 台账是只追加的审计记录，完成回写后不再修改；计数快照按方向分组落库
 * @dependencies gorm.io/gorm, service/models, service/reconciliation
 * @refs api/controllers/run_controller.go, service/scheduler
 */

package runledger

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"batimento-service/service/meta"
	"batimento-service/service/models"
	"batimento-service/service/reconciliation"
)

// Service 运行台账服务
type Service struct {
	db *gorm.DB
}

// NewService 创建运行台账服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRun 登记一次新的对账运行，状态为running
func (s *Service) CreateRun(profileName, trigger, createdBy string) (*models.ReconciliationRun, error) {
	run := &models.ReconciliationRun{
		ProfileName: profileName,
		Status:      meta.RunStatusRunning,
		Trigger:     trigger,
		StartedAt:   time.Now(),
		CreatedBy:   createdBy,
	}
	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("创建运行台账失败: %w", err)
	}
	return run, nil
}

// CompleteRun 回写运行结果，计数快照按方向分组
func (s *Service) CompleteRun(runID string, result *reconciliation.RunResult, artifactDir string) error {
	now := time.Now()
	metrics := models.JSONB{
		"batimento": map[string]interface{}(result.Batimento.Snapshot()),
		"devolucao": map[string]interface{}(result.Devolucao.Snapshot()),
	}
	updates := map[string]interface{}{
		"status":       meta.RunStatusSucceeded,
		"metrics":      metrics,
		"artifact_dir": artifactDir,
		"finished_at":  &now,
	}
	if err := s.db.Model(&models.ReconciliationRun{}).Where("id = ?", runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("回写运行台账失败: %w", err)
	}
	return nil
}

// FailRun 回写失败结果与错误信息
func (s *Service) FailRun(runID string, runErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      meta.RunStatusFailed,
		"error":       runErr.Error(),
		"finished_at": &now,
	}
	if err := s.db.Model(&models.ReconciliationRun{}).Where("id = ?", runID).Updates(updates).Error; err != nil {
		return fmt.Errorf("回写运行台账失败: %w", err)
	}
	return nil
}

// GetRun 按ID查询运行记录
func (s *Service) GetRun(runID string) (*models.ReconciliationRun, error) {
	var run models.ReconciliationRun
	if err := s.db.First(&run, "id = ?", runID).Error; err != nil {
		return nil, fmt.Errorf("查询运行台账失败: %w", err)
	}
	return &run, nil
}

// ListRuns 分页查询运行历史，按开始时间倒序；profileName为空时不过滤
func (s *Service) ListRuns(profileName string, page, size int) ([]models.ReconciliationRun, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	query := s.db.Model(&models.ReconciliationRun{})
	if profileName != "" {
		query = query.Where("profile_name = ?", profileName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计运行台账失败: %w", err)
	}

	var runs []models.ReconciliationRun
	err := query.Order("started_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&runs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询运行台账失败: %w", err)
	}
	return runs, total, nil
}
