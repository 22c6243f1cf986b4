package config

import (
	_ "embed"

	"github.com/rushteam/seedrec/pipeline"
)

//go:embed pipeline.yaml
var defaultPipelineYAML []byte

// DefaultPipeline 返回内置的链路配置。
func DefaultPipeline() (*pipeline.Config, error) {
	return pipeline.ParseYAML(defaultPipelineYAML)
}

// LoadPipeline 读取链路配置；path 为空时使用内置配置。
// 返回前校验所有 node 类型均已注册。
func LoadPipeline(path string) (*pipeline.Config, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	if path == "" {
		cfg, err = DefaultPipeline()
	} else {
		cfg, err = pipeline.LoadFromYAML(path)
	}
	if err != nil {
		return nil, err
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
