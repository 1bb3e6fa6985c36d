/*
 * @module service/config/profile_store_test
 * @description 对账档案仓库单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 构造档案目录 -> 加载 -> 断言档案内容与校验行为
 * @rules 覆盖YAML解析、名称唯一性与校验拒绝
 * @dependencies github.com/stretchr/testify
 * @refs service/config/profile_store
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/models"
)

const validProfileYAML = `name: vic
description: carteira vic
source_file:
  path: /dados/fonte.csv
  separator: ";"
agency_file:
  path: /dados/agencia.csv
  separator: ";"
  encoding: latin-1
source:
  key_rule:
    fields: [contrato]
  validation:
    required_fields: [contrato, cpf]
    document_field: cpf
    duplicate_policy: fatal
agency:
  key_rule:
    fields: [contrato, parcela]
    separator: "-"
  validation:
    duplicate_policy: tolerate
  tiebreak_field: data_baixa
filters:
  status_field: situacao
  status_value: ativo
layout:
  columns:
    - output: contrato
      source: contrato
    - output: valor
      source: valor_atual
      fallback: valor
  key_column: contrato
  creditor_tax_id: "12345678000199"
  creditor_column: cnpj_credor
output_dir: /saida
`

func writeProfile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadValidProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "vic.yaml", validProfileYAML)

	store := NewProfileStore(dir)
	require.NoError(t, store.Load())

	profile, ok := store.Get("vic")
	require.True(t, ok)
	assert.Equal(t, []string{"contrato", "parcela"}, profile.Agency.KeyRule.Fields)
	assert.Equal(t, "latin-1", profile.AgencyFile.Encoding)
	assert.Equal(t, "data_baixa", profile.Agency.TiebreakField)
	assert.Len(t, store.List(), 1)
}

func TestLoadDuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "a.yaml", validProfileYAML)
	writeProfile(t, dir, "b.yaml", validProfileYAML)

	store := NewProfileStore(dir)
	assert.Error(t, store.Load())
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "ruim.yaml", "name: ruim\n")

	store := NewProfileStore(dir)
	assert.Error(t, store.Load())
}

func TestValidateProfileRules(t *testing.T) {
	base := func() *models.ReconciliationProfile {
		return &models.ReconciliationProfile{
			Name:       "p",
			SourceFile: models.DatasetFileConfig{Path: "/f.csv"},
			AgencyFile: models.DatasetFileConfig{Path: "/a.csv"},
			Source:     models.DatasetRules{KeyRule: models.KeyRule{Fields: []string{"contrato"}}},
			Agency:     models.DatasetRules{KeyRule: models.KeyRule{Fields: []string{"contrato"}}},
			Layout: models.LayoutConfig{
				Columns:   []models.LayoutColumn{{Output: "contrato", Source: "contrato"}},
				KeyColumn: "contrato",
			},
		}
	}

	assert.NoError(t, ValidateProfile(base()))

	p := base()
	p.Agency.KeyRule = models.KeyRule{Fields: []string{"a", "b"}}
	assert.Error(t, ValidateProfile(p), "多字段键缺分隔符")

	p = base()
	p.Source.Validation.KeyPattern = "["
	assert.Error(t, ValidateProfile(p), "正则无效")

	p = base()
	p.Source.Validation.DuplicatePolicy = "panic"
	assert.Error(t, ValidateProfile(p), "重复键策略无效")

	p = base()
	p.Layout.KeyColumn = "inexistente"
	assert.Error(t, ValidateProfile(p), "键列不在布局中")

	p = base()
	p.Layout.CreditorColumn = "cnpj_credor"
	assert.Error(t, ValidateProfile(p), "缺少债权方税号")

	p = base()
	p.CronExpr = "abc"
	assert.Error(t, ValidateProfile(p), "调度表达式无效")
}
