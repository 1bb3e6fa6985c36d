/*
 * @module service/identity/provider_test
 * @description 身份集合提供器单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 构造CSV来源 -> 装载 -> 断言规整化与去重
 * @rules 覆盖证件规整化、键裁剪与空成员丢弃
 * @dependencies github.com/stretchr/testify
 * @refs service/identity/provider
 */

package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/models"
)

func writeIdentityFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conjunto.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocumentsNormalizesAndDedups(t *testing.T) {
	path := writeIdentityFile(t, "cpf\n111.222.333-44\n11122233344\n\n  \n555.666.777-88\n")
	provider := NewProvider(nil)

	set, err := provider.LoadDocuments(context.Background(), models.IdentitySetConfig{Path: path, Column: "cpf"})
	require.NoError(t, err)

	// 带掩码和纯数字的同一证件收敛为一个成员，空行丢弃
	assert.Len(t, set, 2)
	assert.Contains(t, set, "11122233344")
	assert.Contains(t, set, "55566677788")
}

func TestLoadKeysTrimsOnly(t *testing.T) {
	path := writeIdentityFile(t, "chave\n C1 \nC2\n\n")
	provider := NewProvider(nil)

	set, err := provider.LoadKeys(context.Background(), models.IdentitySetConfig{Path: path, Column: "chave"})
	require.NoError(t, err)

	assert.Len(t, set, 2)
	assert.Contains(t, set, "C1")
	assert.Contains(t, set, "C2")
}

func TestLoadDefaultsToFirstColumn(t *testing.T) {
	path := writeIdentityFile(t, "documento;outro\n11122233344;x\n")
	provider := NewProvider(nil)

	set, err := provider.LoadDocuments(context.Background(), models.IdentitySetConfig{Path: path})
	require.NoError(t, err)
	assert.Contains(t, set, "11122233344")
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeIdentityFile(t, "cpf\n11122233344\n")
	provider := NewProvider(nil)

	_, err := provider.LoadKeys(context.Background(), models.IdentitySetConfig{Path: path, Column: "inexistente"})
	assert.Error(t, err)
}

func TestLoadEmptyConfig(t *testing.T) {
	provider := NewProvider(nil)

	set, err := provider.LoadKeys(context.Background(), models.IdentitySetConfig{})
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestLoadRedisWithoutConnector(t *testing.T) {
	provider := NewProvider(nil)

	_, err := provider.LoadKeys(context.Background(), models.IdentitySetConfig{RedisKey: "batimento:baixas"})
	assert.Error(t, err)
}
