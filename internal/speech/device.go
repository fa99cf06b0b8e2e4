package speech

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Device identifies the compute device a backend should run on.
type Device string

const (
	DeviceAuto Device = "auto"
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// ComputeType selects the numeric precision a backend loads its model with.
type ComputeType string

const (
	ComputeFloat16 ComputeType = "float16"
	ComputeInt8    ComputeType = "int8"
)

// Capabilities describes what the host can offer a backend.
type Capabilities struct {
	CUDA        bool   `json:"cuda"`
	GPUName     string `json:"gpu_name,omitempty"`
	CPUCount    int    `json:"cpu_count"`
	TotalMemory uint64 `json:"total_memory"`
}

// Decision is the outcome of device negotiation: the device a pass should run
// on, the matching compute type, and whether this is a fallback from what the
// caller asked for.
type Decision struct {
	Device   Device      `json:"device"`
	Compute  ComputeType `json:"compute_type"`
	Fallback bool        `json:"fallback"`
	Reason   string      `json:"reason,omitempty"`
}

// Probe inspects the host for GPU and CPU capabilities. A missing nvidia-smi
// binary simply means no CUDA; it is not an error.
func Probe(ctx context.Context) Capabilities {
	caps := Capabilities{CPUCount: runtime.NumCPU()}

	if count, err := cpu.CountsWithContext(ctx, true); err == nil && count > 0 {
		caps.CPUCount = count
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		caps.TotalMemory = vm.Total
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, "nvidia-smi", "--query-gpu=name", "--format=csv,noheader").Output()
	if err != nil {
		log.Debug().Err(err).Msg("nvidia-smi probe failed, assuming no CUDA")
		return caps
	}

	name := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if name != "" {
		caps.CUDA = true
		caps.GPUName = name
	}
	return caps
}

// Negotiate resolves the requested device against the probed capabilities.
// It never fails: an unsatisfiable request degrades to a CPU decision that
// carries the reason, so callers report the downgrade instead of erroring out.
func Negotiate(requested Device, caps Capabilities) Decision {
	switch requested {
	case DeviceCUDA:
		if caps.CUDA {
			return Decision{Device: DeviceCUDA, Compute: ComputeFloat16}
		}
		return Decision{
			Device:   DeviceCPU,
			Compute:  ComputeInt8,
			Fallback: true,
			Reason:   "cuda requested but no CUDA-capable GPU detected",
		}
	case DeviceCPU:
		return Decision{Device: DeviceCPU, Compute: ComputeInt8}
	default:
		if caps.CUDA {
			return Decision{Device: DeviceCUDA, Compute: ComputeFloat16}
		}
		return Decision{Device: DeviceCPU, Compute: ComputeInt8}
	}
}

// CPUFallback builds the CPU decision used after a backend failed to start on
// the negotiated device.
func CPUFallback(reason string) Decision {
	return Decision{
		Device:   DeviceCPU,
		Compute:  ComputeInt8,
		Fallback: true,
		Reason:   reason,
	}
}

// ParseDevice normalizes a user supplied device string; anything unknown maps
// to auto.
func ParseDevice(s string) Device {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(DeviceCUDA), "gpu":
		return DeviceCUDA
	case string(DeviceCPU):
		return DeviceCPU
	default:
		return DeviceAuto
	}
}
