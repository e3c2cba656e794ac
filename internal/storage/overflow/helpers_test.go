package overflow

import "github.com/cuemby/graphdb/pkg/config"

func testSystemConfig() config.SystemConfig {
	return config.SystemConfig{
		DefaultPageBufferPoolSize: 1 << 20,
		LargePageBufferPoolSize:   1 << 20,
		MaxNumThreads:             2,
	}
}
