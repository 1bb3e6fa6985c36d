/**
 * @module SchedulerService
 * @description 对账调度器服务，按档案的Cron表达式周期触发对账运行
 * @architecture 基于Go协程和cron库的调度器模式
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 档案扫描 -> Cron注册 -> 周期触发 -> 运行编排服务执行
 * @rules 同一档案同一时刻只允许一次在途运行，档案重载后需要Reload重建注册表
 * @dependencies github.com/robfig/cron/v3
 * @refs service/batimento_service.go, service/config
 */

package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

// ProfileRunner 档案运行入口，由运行编排服务实现
type ProfileRunner interface {
	RunProfile(ctx context.Context, profileName, trigger, createdBy string) (*models.ReconciliationRun, error)
}

// ProfileLister 档案枚举入口，由档案仓库实现
type ProfileLister interface {
	List() []*models.ReconciliationProfile
}

// SchedulerService 对账调度器服务
type SchedulerService struct {
	runner   ProfileRunner
	profiles ProfileLister
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc

	// inflight 档案名 -> 是否有在途运行
	inflight map[string]bool
	mutex    sync.Mutex
}

// NewSchedulerService 创建对账调度器服务
func NewSchedulerService(runner ProfileRunner, profiles ProfileLister) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		runner:   runner,
		profiles: profiles,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]bool),
	}
}

// Start 启动调度器并注册全部带调度表达式的档案
func (s *SchedulerService) Start() error {
	if err := s.registerProfiles(); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("对账调度器启动完成")
	return nil
}

// Stop 停止调度器
func (s *SchedulerService) Stop() {
	s.cancel()
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	slog.Info("对账调度器已停止")
}

// Reload 档案重载后重建Cron注册表
func (s *SchedulerService) Reload() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.cron = cron.New()
	if err := s.registerProfiles(); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("对账调度器注册表已重建")
	return nil
}

// registerProfiles 把带Cron表达式的档案注册到调度器
func (s *SchedulerService) registerProfiles() error {
	count := 0
	for _, profile := range s.profiles.List() {
		if profile.CronExpr == "" {
			continue
		}

		name := profile.Name
		_, err := s.cron.AddFunc(profile.CronExpr, func() {
			s.runScheduled(name)
		})
		if err != nil {
			slog.Error("注册调度档案失败", "profile", name, "cron", profile.CronExpr, "error", err)
			return err
		}
		count++
		slog.Info("注册调度档案", "profile", name, "cron", profile.CronExpr)
	}
	slog.Info("调度档案注册完成", "count", count)
	return nil
}

// runScheduled 执行一次调度触发的运行，同档案在途时跳过
func (s *SchedulerService) runScheduled(profileName string) {
	s.mutex.Lock()
	if s.inflight[profileName] {
		s.mutex.Unlock()
		slog.Warn("档案存在在途运行，跳过本次调度", "profile", profileName)
		return
	}
	s.inflight[profileName] = true
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		s.inflight[profileName] = false
		s.mutex.Unlock()
	}()

	if _, err := s.runner.RunProfile(s.ctx, profileName, meta.RunTriggerScheduled, "scheduler"); err != nil {
		slog.Error("调度运行失败", "profile", profileName, "error", err)
	}
}
