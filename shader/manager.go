package shader

import (
	"fmt"

	"github.com/gogpu/hips/internal/cache"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// defaultCacheSize bounds the number of compiled programs kept. There are
// 2 kinds x 3 color modes x 3 sample types x 2 projections at most.
const defaultCacheSize = 64

type compiled struct {
	spirv []uint32
	err   error
}

// Manager compiles programs on first use and memoises the result, failures
// included. It is safe for concurrent use.
type Manager struct {
	programs *cache.Cache[Key, compiled]
	compile  func(string) ([]byte, error)
}

// NewManager returns a Manager compiling with naga.
func NewManager() *Manager {
	return &Manager{
		programs: cache.New[Key, compiled](defaultCacheSize),
		compile:  naga.Compile,
	}
}

// NewManagerWithCompiler returns a Manager compiling WGSL to SPIR-V bytes
// with compile.
func NewManagerWithCompiler(compile func(string) ([]byte, error)) *Manager {
	m := NewManager()
	m.compile = compile
	return m
}

// SPIRV returns the compiled program selected by k.
func (m *Manager) SPIRV(k Key) ([]uint32, error) {
	k = k.normalized()
	c := m.programs.GetOrCreate(k, func() compiled {
		src, err := Source(k)
		if err != nil {
			return compiled{err: err}
		}
		spirv, err := CompileToSPIRV(m.compile, src)
		if err != nil {
			return compiled{err: fmt.Errorf("shader: %s: %w", k, err)}
		}
		return compiled{spirv: spirv}
	})
	return c.spirv, c.err
}

// Stats returns the memoisation statistics.
func (m *Manager) Stats() cache.Stats {
	return m.programs.Stats()
}

// Module creates a HAL shader module for k on device.
func (m *Manager) Module(device hal.Device, k Key) (hal.ShaderModule, error) {
	spirv, err := m.SPIRV(k)
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "hips/" + k.String(),
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
}

// CompileToSPIRV compiles WGSL source with compile and converts the result
// to SPIR-V words.
func CompileToSPIRV(compile func(string) ([]byte, error), src string) ([]uint32, error) {
	spirvBytes, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}
