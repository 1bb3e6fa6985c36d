/*
 * @module service/identity/provider
 * @description 身份集合提供器，装载司法名单（CPF/CNPJ集合）与核销键集合，支持CSV文件与Redis集合两种来源
 * @architecture 适配器模式 - 多来源身份集合到内存集合
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 来源选择 -> 装载原始成员 -> 规整化 -> 去重集合
 * @rules 证件成员只保留数字位，键成员只做首尾裁剪；空成员丢弃；同一配置给了Redis与文件两个来源时Redis优先
 * @dependencies client/connectors, service/dataset
 * @refs service/reconciliation/segmenter, service/reconciliation/engine
 */

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"batimento-service/client/connectors"
	"batimento-service/service/dataset"
	"batimento-service/service/models"
	"batimento-service/service/reconciliation"
)

// Provider 身份集合提供器
type Provider struct {
	redis *connectors.RedisConnector
}

// NewProvider 创建身份集合提供器，redis可以为nil（只用文件来源时）
func NewProvider(redis *connectors.RedisConnector) *Provider {
	return &Provider{redis: redis}
}

// LoadDocuments 装载证件集合，成员按证件规整化（只保留数字位）
func (p *Provider) LoadDocuments(ctx context.Context, cfg models.IdentitySetConfig) (map[string]struct{}, error) {
	raw, err := p.loadMembers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(raw))
	for _, member := range raw {
		document := reconciliation.NormalizeDocument(member)
		if document == "" {
			continue
		}
		set[document] = struct{}{}
	}
	slog.Info("证件集合装载完成", "raw", len(raw), "unique", len(set))
	return set, nil
}

// LoadKeys 装载键集合，成员只做首尾裁剪
func (p *Provider) LoadKeys(ctx context.Context, cfg models.IdentitySetConfig) (map[string]struct{}, error) {
	raw, err := p.loadMembers(ctx, cfg)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(raw))
	for _, member := range raw {
		key := strings.TrimSpace(member)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	slog.Info("键集合装载完成", "raw", len(raw), "unique", len(set))
	return set, nil
}

// loadMembers 从配置来源读取原始成员列表
func (p *Provider) loadMembers(ctx context.Context, cfg models.IdentitySetConfig) ([]string, error) {
	switch {
	case cfg.RedisKey != "":
		return p.loadFromRedis(ctx, cfg.RedisKey)
	case cfg.Path != "":
		return p.loadFromFile(cfg)
	default:
		return nil, nil
	}
}

func (p *Provider) loadFromFile(cfg models.IdentitySetConfig) ([]string, error) {
	ds, err := dataset.ReadCSV("identity", models.DatasetFileConfig{Path: cfg.Path, Separator: cfg.Separator, Encoding: cfg.Encoding})
	if err != nil {
		return nil, fmt.Errorf("装载身份集合文件失败: %w", err)
	}

	column := cfg.Column
	if column == "" {
		if len(ds.Columns) == 0 {
			return nil, fmt.Errorf("身份集合文件没有表头: %s", cfg.Path)
		}
		column = ds.Columns[0]
	}
	if !ds.HasColumn(column) {
		return nil, fmt.Errorf("身份集合文件缺少列 %s: %s", column, cfg.Path)
	}

	members := make([]string, 0, ds.Len())
	for _, row := range ds.Rows {
		if value, ok := row[column].(string); ok {
			members = append(members, value)
		}
	}
	return members, nil
}

func (p *Provider) loadFromRedis(ctx context.Context, key string) ([]string, error) {
	if p.redis == nil {
		return nil, fmt.Errorf("身份集合配置了Redis来源但Redis连接器未初始化: %s", key)
	}
	members, err := p.redis.SetMembers(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("装载Redis身份集合失败: %w", err)
	}
	return members, nil
}
