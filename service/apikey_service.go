/*
 * @module service/apikey_service
 * @description API密钥服务，提供密钥签发、验证与吊销，密钥值只以bcrypt哈希落库
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 密钥签发(明文只返回一次) -> 请求验证 -> 吊销
 * @rules 验证先按前缀定位再比对哈希；过期或吊销的密钥一律拒绝
 * @dependencies gorm.io/gorm, golang.org/x/crypto/bcrypt
 * @refs api/middleware/apikey_auth.go, api/controllers/apikey_controller.go
 */

package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"batimento-service/service/models"
)

// ApiKeyService API密钥服务
type ApiKeyService struct {
	db *gorm.DB
}

// NewApiKeyService 创建API密钥服务实例
func NewApiKeyService(db *gorm.DB) *ApiKeyService {
	return &ApiKeyService{db: db}
}

// CreateApiKey 签发新密钥，返回的明文只在此刻可见
func (s *ApiKeyService) CreateApiKey(name, createdBy string, expiresAt *time.Time) (*models.ApiKey, string, error) {
	plaintext, err := generateRandomString(32)
	if err != nil {
		return nil, "", fmt.Errorf("生成密钥失败: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("密钥哈希失败: %w", err)
	}

	apiKey := &models.ApiKey{
		Name:         name,
		KeyPrefix:    plaintext[:8],
		KeyValueHash: string(hashed),
		Status:       "active",
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now(),
		CreatedBy:    createdBy,
	}
	if err := s.db.Create(apiKey).Error; err != nil {
		return nil, "", fmt.Errorf("保存密钥失败: %w", err)
	}
	return apiKey, plaintext, nil
}

// VerifyApiKey 验证明文密钥，通过时刷新最后使用时间
func (s *ApiKeyService) VerifyApiKey(plaintext string) (*models.ApiKey, error) {
	if len(plaintext) < 8 {
		return nil, errors.New("密钥格式无效")
	}

	var apiKey models.ApiKey
	err := s.db.Where("key_prefix = ?", plaintext[:8]).First(&apiKey).Error
	if err != nil {
		return nil, errors.New("密钥不存在")
	}

	if apiKey.Status != "active" {
		return nil, errors.New("密钥已被禁用")
	}
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("密钥已过期")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(apiKey.KeyValueHash), []byte(plaintext)); err != nil {
		return nil, errors.New("密钥验证失败")
	}

	now := time.Now()
	s.db.Model(&apiKey).Update("last_used_at", &now)
	apiKey.LastUsedAt = &now
	return &apiKey, nil
}

// ListApiKeys 列出全部密钥（不含哈希值）
func (s *ApiKeyService) ListApiKeys() ([]models.ApiKey, error) {
	var keys []models.ApiKey
	if err := s.db.Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("查询密钥失败: %w", err)
	}
	return keys, nil
}

// RevokeApiKey 吊销密钥
func (s *ApiKeyService) RevokeApiKey(id string) error {
	result := s.db.Model(&models.ApiKey{}).Where("id = ?", id).Update("status", "revoked")
	if result.Error != nil {
		return fmt.Errorf("吊销密钥失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("密钥不存在")
	}
	return nil
}

// generateRandomString 生成十六进制随机串，length为输出长度
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
