// Package registry 模型元数据注册表：metadata.json按模型ID分目录存放
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"stock-forecast-engine/internal/model"
)

const metadataFile = "metadata.json"

// Registry 基于文件系统的模型注册表
type Registry struct {
	root string
}

// New 打开注册表，root为空时使用<用户配置目录>/biga/models
func New(root string) (*Registry, error) {
	if root == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		root = filepath.Join(base, "biga", "models")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建模型目录失败: %w", err)
	}
	return &Registry{root: root}, nil
}

// Save 写入模型元数据，ID为空时生成新ID
func (r *Registry) Save(info *model.ModelInfo) error {
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if info.CreatedAt == 0 {
		info.CreatedAt = time.Now().Unix()
	}
	dir := filepath.Join(r.root, info.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建模型目录失败: %w", err)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metadataFile), data, 0o644)
}

// Load 按ID读取模型元数据
func (r *Registry) Load(id string) (*model.ModelInfo, error) {
	data, err := os.ReadFile(filepath.Join(r.root, id, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrModelNotFound
		}
		return nil, err
	}
	var info model.ModelInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("解析模型元数据失败: %w", err)
	}
	return &info, nil
}

// List 列出模型，stockCode非空时按代码过滤，结果按创建时间倒序
func (r *Registry) List(stockCode string) ([]model.ModelInfo, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, err
	}
	var infos []model.ModelInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := r.Load(e.Name())
		if err != nil {
			continue // 损坏的目录跳过，不影响其余模型
		}
		if stockCode != "" && info.StockCode != stockCode {
			continue
		}
		infos = append(infos, *info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt > infos[j].CreatedAt
	})
	return infos, nil
}

// Delete 删除模型及其目录
func (r *Registry) Delete(id string) error {
	dir := filepath.Join(r.root, id)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return model.ErrModelNotFound
	}
	return os.RemoveAll(dir)
}
