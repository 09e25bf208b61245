//go:build !opencl
// +build !opencl

package worker

import (
	"errors"

	"ethvanity/internal/logger"
	"ethvanity/pkg/matcher"
)

// ErrGPUUnsupported is returned when the binary was built without the
// opencl build tag.
var ErrGPUUnsupported = errors.New("GPU support not compiled in (build with -tags opencl)")

type gpuWorker struct{}

func newGPUWorker(id int, pattern *matcher.Pattern, deriver Deriver,
	results chan<- FoundRecord, quit <-chan struct{}, stats *Stats,
	log *logger.Logger, deviceIndex, workSize int) (*gpuWorker, error) {
	return nil, ErrGPUUnsupported
}

func (w *gpuWorker) run() {}

// GPUAvailable reports whether this binary can use a GPU worker.
func GPUAvailable() bool { return false }

// ListDevices returns the names of usable OpenCL GPU devices.
func ListDevices() []string { return nil }
