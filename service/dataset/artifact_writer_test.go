/*
 * @module service/dataset/artifact_writer_test
 * @description 产物落盘器单元测试
 * @architecture 单元测试
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 写出产物 -> 回读ZIP与CSV -> 断言列序与单元格原文
 * @rules 覆盖列序保持、逗号小数原样与ZIP条目完整性
 * @dependencies github.com/stretchr/testify
 * @refs service/dataset/artifact_writer
 */

package dataset

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batimento-service/service/meta"
	"batimento-service/service/models"
)

func TestWriteAllProducesCSVAndZip(t *testing.T) {
	writer := NewArtifactWriter(t.TempDir(), ";")

	artifacts := map[string]*models.Dataset{
		"batimento_judicial": models.NewDataset(meta.DatasetRoleSource,
			[]string{"contrato", "valor"},
			[]models.Record{{"contrato": "C1", "valor": "1.234,56"}},
		),
		"devolucao": models.NewDataset(meta.DatasetRoleAgency,
			[]string{"contrato"},
			[]models.Record{{"contrato": "C5"}},
		),
	}

	dir, zipPath, err := writer.WriteAll("run-1", artifacts, []string{"batimento_judicial", "devolucao"})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "batimento_judicial.csv"))
	require.NoError(t, err)
	// 表头在前，逗号小数保持原文
	assert.Equal(t, "contrato;valor\nC1;1.234,56\n", string(content))

	archive, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer archive.Close()

	names := make([]string, 0, len(archive.File))
	for _, entry := range archive.File {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"batimento_judicial.csv", "devolucao.csv"}, names)
}

func TestWriteAllSkipsMissingArtifacts(t *testing.T) {
	writer := NewArtifactWriter(t.TempDir(), ";")

	artifacts := map[string]*models.Dataset{
		"devolucao": models.NewDataset(meta.DatasetRoleAgency, []string{"k"}, nil),
	}

	dir, _, err := writer.WriteAll("run-2", artifacts, []string{"batimento_judicial", "devolucao"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "batimento_judicial.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "devolucao.csv"))
	assert.NoError(t, err)
}

func TestCellTextReasonsJoined(t *testing.T) {
	assert.Equal(t, "CPF_VAZIO;VENCIMENTO_INVALIDO", cellText([]string{"CPF_VAZIO", "VENCIMENTO_INVALIDO"}))
	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, "10,00", cellText("10,00"))
}
