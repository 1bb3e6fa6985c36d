/*
 * @module service/dataset/csv_reader
 * @description CSV数据集装载器，把分隔符文件装载为内存态数据集，支持latin-1解码与分块读取
 * @architecture 适配器模式 - 外部表格源到内存数据集
 * @documentReference ai_docs/reconciliation_core_design.md
 * @stateFlow 文件打开 -> 编码解码 -> 表头解析 -> 分块逐行装载
 * @rules 行序必须与文件行序一致（去重与裁决规则依赖抽取顺序），分块只限内存峰值、不改变逻辑结果
 * @dependencies encoding/csv, golang.org/x/text/encoding/charmap
 * @refs service/reconciliation, service/config
 */

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"batimento-service/service/models"
)

// 分块装载的批大小，只影响内存峰值，不影响结果
const readChunkSize = 10000

// ReadCSV 装载CSV文件为数据集，第一行是表头，行序保持文件顺序
func ReadCSV(role string, cfg models.DatasetFileConfig) (*models.Dataset, error) {
	file, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("打开数据集文件失败: %w", err)
	}
	defer file.Close()

	var source io.Reader = file
	switch strings.ToLower(cfg.Encoding) {
	case "", "utf-8", "utf8":
		// 默认按UTF-8读取
	case "latin-1", "latin1", "iso-8859-1":
		source = transform.NewReader(file, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		source = transform.NewReader(file, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("不支持的数据集文件编码: %s", cfg.Encoding)
	}

	reader := csv.NewReader(source)
	reader.Comma = separatorRune(cfg.Separator)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("数据集文件为空，缺少表头: %s", cfg.Path)
		}
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	rows := make([]models.Record, 0, readChunkSize)
	for {
		chunk, err := readChunk(reader, columns)
		rows = append(rows, chunk...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取数据行失败: %w", err)
		}
	}

	return models.NewDataset(role, columns, rows), nil
}

// readChunk 读取一个批次的数据行，返回 io.EOF 表示文件读尽
func readChunk(reader *csv.Reader, columns []string) ([]models.Record, error) {
	chunk := make([]models.Record, 0, readChunkSize)
	for len(chunk) < readChunkSize {
		record, err := reader.Read()
		if err != nil {
			return chunk, err
		}

		row := make(models.Record, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		chunk = append(chunk, row)
	}
	return chunk, nil
}

func separatorRune(separator string) rune {
	if separator == "" {
		return ';'
	}
	return []rune(separator)[0]
}
