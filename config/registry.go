// Package config 提供进程配置（Settings）与配置驱动 Pipeline 的 Node 注册表。
package config

import (
	"sort"
	"strings"
	"sync"

	"github.com/rushteam/artrec/core"
	"github.com/rushteam/artrec/pipeline"
)

// 使用配置驱动时，需 import _ "github.com/rushteam/artrec/config/builders"
// 以注册内置 Node（recall.corpus、filter、rank.advanced、rerank.mmr 等）。

// NodeBuilder 与 pipeline.NodeBuilder 一致。
type NodeBuilder = pipeline.NodeBuilder

var registry = struct {
	sync.RWMutex
	builders map[string]NodeBuilder
}{builders: make(map[string]NodeBuilder)}

// Register 注册一种 Node 的构建逻辑，同名覆盖。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	registry.Lock()
	defer registry.Unlock()
	registry.builders[typeName] = builder
}

// SupportedTypes 返回已注册的 Node 类型（升序）。
func SupportedTypes() []string {
	registry.RLock()
	defer registry.RUnlock()
	return sortedKeys(registry.builders)
}

// DefaultFactory 用注册表的当前快照构建 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	registry.RLock()
	defer registry.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range registry.builders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidatePipelineConfig 在构建前检查所有 node 类型都已注册，
// 一次报告全部未知类型，并附上已支持的类型列表。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	registry.RLock()
	defer registry.RUnlock()

	var unknown []string
	for _, nc := range cfg.Pipeline.Nodes {
		if _, ok := registry.builders[nc.Type]; !ok {
			unknown = append(unknown, nc.Type)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return core.NewDomainError(core.ModulePipeline, core.ErrorCodeNotSupported,
		"config: unsupported node types ["+strings.Join(unknown, ", ")+"], supported: ["+
			strings.Join(sortedKeys(registry.builders), ", ")+"]")
}

func sortedKeys(m map[string]NodeBuilder) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
