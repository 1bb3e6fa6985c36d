/*
 * @module service/models/run_models
 * @description 对账运行台账与API密钥模型定义
 * @architecture DDD领域驱动设计 - 实体模型
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 运行创建 -> 执行 -> 计数快照落库 -> 历史查询
 * @rules 遵循数据库设计规范，确保数据完整性和一致性
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/runledger, api/middleware
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconciliationRun 一次对账运行的台账记录
type ReconciliationRun struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProfileName string     `json:"profile_name" gorm:"not null;size:100;index"`
	Status      string     `json:"status" gorm:"not null;default:'running';size:20"` // running, succeeded, failed
	Trigger     string     `json:"trigger" gorm:"not null;default:'manual';size:20"` // manual, scheduled
	Metrics     JSONB      `json:"metrics" gorm:"type:jsonb"`
	ArtifactDir string     `json:"artifact_dir" gorm:"size:500"`
	Error       string     `json:"error" gorm:"size:2000"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	FinishedAt  *time.Time `json:"finished_at"`
	CreatedBy   string     `json:"created_by" gorm:"not null;default:'system';size:100"`
}

// BeforeCreate 创建前钩子，生成UUID
func (r *ReconciliationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ApiKey API密钥模型，保存bcrypt哈希后的密钥值
type ApiKey struct {
	ID           string     `json:"id" gorm:"type:uuid;primary_key"`
	Name         string     `json:"name" gorm:"not null"`
	KeyPrefix    string     `json:"key_prefix" gorm:"not null;size:8"` // Key的前缀，用于快速识别
	KeyValueHash string     `json:"-" gorm:"not null;unique"`          // 存储Hash后的Key值
	Status       string     `json:"status" gorm:"not null;default:'active'"` // active, inactive, revoked
	ExpiresAt    *time.Time `json:"expires_at"`
	LastUsedAt   *time.Time `json:"last_used_at"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    string     `json:"created_by" gorm:"size:100"`
}

// BeforeCreate 创建前钩子，生成UUID
func (ak *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if ak.ID == "" {
		ak.ID = uuid.New().String()
	}
	return nil
}
