/*
 * @module service/dataset/artifact_writer
 * @description 产物落盘器，把对账产物按固定顺序写成CSV并打包成ZIP交付件
 * @architecture 适配器模式 - 内存态数据集到文件交付件
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 逐产物写CSV -> 汇总打ZIP -> 返回交付件路径
 * @rules 列序与单元格文本必须原样输出，数值的逗号小数格式不得被改写
 * @dependencies archive/zip, encoding/csv, github.com/spf13/cast
 * @refs service/reconciliation/engine, service/runledger
 */

package dataset

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"

	"batimento-service/service/models"
)

// ArtifactWriter 把一次对账运行的全部产物写入目标目录
type ArtifactWriter struct {
	baseDir   string
	separator rune
}

func NewArtifactWriter(baseDir string, separator string) *ArtifactWriter {
	return &ArtifactWriter{
		baseDir:   baseDir,
		separator: separatorRune(separator),
	}
}

// WriteAll 把产物按给定顺序写成CSV文件并打包，返回 (目录, zip路径)
func (w *ArtifactWriter) WriteAll(runID string, artifacts map[string]*models.Dataset, order []string) (string, string, error) {
	dir := filepath.Join(w.baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("创建产物目录失败: %w", err)
	}

	names := make([]string, 0, len(order))
	for _, name := range order {
		ds, ok := artifacts[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name+".csv")
		if err := w.writeCSV(path, ds); err != nil {
			return "", "", err
		}
		names = append(names, name+".csv")
	}

	zipPath := filepath.Join(dir, "resultado.zip")
	if err := w.writeZip(zipPath, dir, names); err != nil {
		return "", "", err
	}
	return dir, zipPath, nil
}

func (w *ArtifactWriter) writeCSV(path string, ds *models.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建产物文件失败: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = w.separator

	if err := writer.Write(ds.Columns); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	line := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, column := range ds.Columns {
			line[i] = cellText(row[column])
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("写入数据行失败: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("刷写产物文件失败: %w", err)
	}
	return nil
}

func (w *ArtifactWriter) writeZip(zipPath, dir string, names []string) error {
	file, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("创建ZIP交付件失败: %w", err)
	}
	defer file.Close()

	archive := zip.NewWriter(file)
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("回读产物文件失败: %w", err)
		}
		entry, err := archive.Create(name)
		if err != nil {
			return fmt.Errorf("创建ZIP条目失败: %w", err)
		}
		if _, err := entry.Write(content); err != nil {
			return fmt.Errorf("写入ZIP条目失败: %w", err)
		}
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("关闭ZIP交付件失败: %w", err)
	}
	return nil
}

// cellText 与布局器的单元格文本化规则保持一致：字符串原样，时间用巴西日期格式
func cellText(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ";")
	case time.Time:
		return v.Format("02/01/2006")
	default:
		return cast.ToString(v)
	}
}
