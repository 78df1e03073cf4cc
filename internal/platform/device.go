// Package platform probes host capabilities the service adapts to at
// startup.
package platform

import (
	"context"
	"os/exec"
	"time"
)

type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// DetectDevice reports the compute device inference should target: cuda
// when an NVIDIA GPU is visible to the driver, cpu otherwise. The probe is
// best-effort; any failure means cpu.
func DetectDevice() Device {
	return detectDevice(hasNvidiaGPU)
}

func detectDevice(probe func() bool) Device {
	if probe() {
		return DeviceCUDA
	}
	return DeviceCPU
}

func hasNvidiaGPU() bool {
	if _, err := exec.LookPath("nvidia-smi"); err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return exec.CommandContext(ctx, "nvidia-smi", "-L").Run() == nil
}
