package gfx

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// provider exposes a Context through gpucontext.DeviceProvider so overlays
// built against the gogpu ecosystem can share the device.
type provider struct {
	c *Context
}

// DeviceProvider returns a view of the context for gpucontext consumers.
// Device, Queue and Adapter return the hal values.
func (c *Context) DeviceProvider() gpucontext.DeviceProvider {
	return provider{c: c}
}

func (p provider) Device() gpucontext.Device { return p.c.device }

func (p provider) Queue() gpucontext.Queue { return p.c.queue }

func (p provider) SurfaceFormat() gputypes.TextureFormat { return p.c.config.Format }

func (p provider) Adapter() gpucontext.Adapter {
	if p.c.adapter == nil {
		return nil
	}
	return p.c.adapter
}

func (p provider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: p.c.info.Name,
		Type: adapterType(p.c.info.DeviceType),
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

var _ gpucontext.DeviceProvider = provider{}
