/*
 * @module service/batimento_service
 * @description 对账运行编排服务，串联档案装载、数据集读取、身份集合、流水线引擎、产物落盘与台账回写
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 台账登记 -> 数据集装载 -> 身份集合装载 -> 引擎执行 -> 产物落盘 -> 台账回写
 * @rules 运行同步执行；任一阶段失败即回写failed并带上错误信息，台账永远有终态
 * @dependencies service/config, service/dataset, service/identity, service/reconciliation, service/runledger
 * @refs api/controllers/run_controller.go, service/scheduler
 */

package service

import (
	"context"
	"fmt"
	"log/slog"

	"batimento-service/service/config"
	"batimento-service/service/dataset"
	"batimento-service/service/identity"
	"batimento-service/service/meta"
	"batimento-service/service/models"
	"batimento-service/service/reconciliation"
	"batimento-service/service/runledger"
)

// BatimentoService 对账运行编排服务
type BatimentoService struct {
	profiles *config.ProfileStore
	identity *identity.Provider
	ledger   *runledger.Service
	engine   *reconciliation.Engine

	// defaultOutputDir 档案未配置导出目录时的回退目录
	defaultOutputDir string
}

// NewBatimentoService 创建对账运行编排服务实例
func NewBatimentoService(profiles *config.ProfileStore, provider *identity.Provider, ledger *runledger.Service, defaultOutputDir string) *BatimentoService {
	return &BatimentoService{
		profiles:         profiles,
		identity:         provider,
		ledger:           ledger,
		engine:           reconciliation.NewEngine(slog.Default()),
		defaultOutputDir: defaultOutputDir,
	}
}

// RunOverrides 单次运行的可选覆盖项，覆盖档案里的数据集文件路径
type RunOverrides struct {
	SourcePath string
	AgencyPath string
}

// RunProfile 按档案名执行一次完整对账，返回终态的台账记录
func (s *BatimentoService) RunProfile(ctx context.Context, profileName, trigger, createdBy string) (*models.ReconciliationRun, error) {
	return s.RunProfileWithOverrides(ctx, profileName, trigger, createdBy, RunOverrides{})
}

// RunProfileWithOverrides 同RunProfile，但允许覆盖本次运行的数据集文件路径
func (s *BatimentoService) RunProfileWithOverrides(ctx context.Context, profileName, trigger, createdBy string, overrides RunOverrides) (*models.ReconciliationRun, error) {
	stored, ok := s.profiles.Get(profileName)
	if !ok {
		return nil, fmt.Errorf("档案不存在: %s", profileName)
	}

	// 覆盖只作用于本次运行，档案本身不变
	profile := *stored
	if overrides.SourcePath != "" {
		profile.SourceFile.Path = overrides.SourcePath
	}
	if overrides.AgencyPath != "" {
		profile.AgencyFile.Path = overrides.AgencyPath
	}

	run, err := s.ledger.CreateRun(profileName, trigger, createdBy)
	if err != nil {
		return nil, err
	}

	artifactDir, runErr := s.execute(ctx, &profile, run.ID)
	if runErr != nil {
		slog.Error("对账运行失败", "profile", profileName, "run_id", run.ID, "error", runErr)
		if failErr := s.ledger.FailRun(run.ID, runErr); failErr != nil {
			slog.Error("回写失败台账失败", "run_id", run.ID, "error", failErr)
		}
		reconciliation.CountRun(profileName, meta.RunStatusFailed)
		return s.ledger.GetRun(run.ID)
	}

	reconciliation.CountRun(profileName, meta.RunStatusSucceeded)
	slog.Info("对账运行成功", "profile", profileName, "run_id", run.ID, "artifact_dir", artifactDir)
	return s.ledger.GetRun(run.ID)
}

// execute 执行运行主体，返回产物目录
func (s *BatimentoService) execute(ctx context.Context, profile *models.ReconciliationProfile, runID string) (string, error) {
	source, err := dataset.ReadCSV(meta.DatasetRoleSource, profile.SourceFile)
	if err != nil {
		return "", fmt.Errorf("装载债权方台账失败: %w", err)
	}
	agency, err := dataset.ReadCSV(meta.DatasetRoleAgency, profile.AgencyFile)
	if err != nil {
		return "", fmt.Errorf("装载催收系统台账失败: %w", err)
	}

	judicialIDs, err := s.identity.LoadDocuments(ctx, profile.JudicialSet)
	if err != nil {
		return "", fmt.Errorf("装载司法名单失败: %w", err)
	}
	writeOffKeys, err := s.identity.LoadKeys(ctx, profile.WriteOffSet)
	if err != nil {
		return "", fmt.Errorf("装载核销键名单失败: %w", err)
	}

	result, err := s.engine.Run(profile, &reconciliation.Input{
		Source:       source,
		Agency:       agency,
		JudicialIDs:  judicialIDs,
		WriteOffKeys: writeOffKeys,
	})
	if err != nil {
		return "", err
	}

	outputDir := profile.OutputDir
	if outputDir == "" {
		outputDir = s.defaultOutputDir
	}
	writer := dataset.NewArtifactWriter(outputDir, profile.SourceFile.Separator)
	artifactDir, _, err := writer.WriteAll(runID, result.Artifacts, result.ArtifactOrder)
	if err != nil {
		return "", fmt.Errorf("产物落盘失败: %w", err)
	}

	if err := s.ledger.CompleteRun(runID, result, artifactDir); err != nil {
		return "", err
	}
	return artifactDir, nil
}

// Profiles 暴露档案仓库，供API层查询
func (s *BatimentoService) Profiles() *config.ProfileStore {
	return s.profiles
}

// Ledger 暴露台账服务，供API层查询
func (s *BatimentoService) Ledger() *runledger.Service {
	return s.ledger
}
