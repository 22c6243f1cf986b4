package core

// RecallConfig 是推荐链路相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultLimit 返回默认的结果数 N
	DefaultLimit() int

	// MaxLimit 返回允许的最大结果数
	MaxLimit() int

	// MaxComponents 返回降维保留的最大分量数
	MaxComponents() int
}

// DefaultRecallConfig 是默认的配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultLimit() int {
	return 5
}

func (c *DefaultRecallConfig) MaxLimit() int {
	return 50
}

func (c *DefaultRecallConfig) MaxComponents() int {
	return 50
}

// StaticRecallConfig 是由配置文件给出的 RecallConfig 实现，零值字段回退到默认值。
type StaticRecallConfig struct {
	Limit      int
	Max        int
	Components int
}

func (c *StaticRecallConfig) DefaultLimit() int {
	if c.Limit > 0 {
		return c.Limit
	}
	return (&DefaultRecallConfig{}).DefaultLimit()
}

func (c *StaticRecallConfig) MaxLimit() int {
	if c.Max > 0 {
		return c.Max
	}
	return (&DefaultRecallConfig{}).MaxLimit()
}

func (c *StaticRecallConfig) MaxComponents() int {
	if c.Components > 0 {
		return c.Components
	}
	return (&DefaultRecallConfig{}).MaxComponents()
}
