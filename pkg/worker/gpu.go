//go:build opencl
// +build opencl

package worker

/*
#cgo linux LDFLAGS: -lOpenCL
#cgo windows LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL

#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif

#include <stdlib.h>
*/
import "C"

import (
	"embed"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/ethereum/go-ethereum/crypto"

	"ethvanity/internal/logger"
	"ethvanity/pkg/matcher"
)

//go:embed kernels/vanity.cl
var kernelFS embed.FS

// GPU error taxonomy. Construction failures surface to the pool, which falls
// back to CPU-only; per-batch failures are retried and never kill the worker.
var (
	ErrNoDevice      = errors.New("no OpenCL GPU device found")
	ErrEOAOnly       = errors.New("GPU worker supports EOA derivation only")
	errInit          = errors.New("GPU initialization failed")
	errKernelCompile = errors.New("kernel compilation failed")
	errBuffer        = errors.New("buffer operation failed")
	errKernelExec    = errors.New("kernel execution failed")
)

// gpuWorker searches with the incremental key protocol: the host picks a
// random base scalar k and uploads Q = k*G; each device lane i computes
// Q + i*G via the precomputed 2^j*G table, hashes it to an address, and
// tests the pattern. The host reconstructs (k + offset) mod n for every
// reported hit and re-verifies it on the ordinary derivation path before
// reporting, so a miscomputing device can only cost throughput, never emit
// a wrong key.
type gpuWorker struct {
	id       int
	pattern  *matcher.Pattern
	results  chan<- FoundRecord
	quit     <-chan struct{}
	stats    *Stats
	log      *logger.Logger
	workSize int

	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue
	program  C.cl_program
	kernel   C.cl_kernel

	bufBasePoint C.cl_mem // base public key, 64 bytes x||y
	bufGTable    C.cl_mem // 32 x 64 bytes, entry k = 2^k*G
	bufPattern   C.cl_mem // packed pattern descriptor, 96 bytes
	bufResults   C.cl_mem // maxResultsPerBatch result entries
	bufCount     C.cl_mem // u32 result counter, zeroed per dispatch
}

func newGPUWorker(id int, pattern *matcher.Pattern, deriver Deriver,
	results chan<- FoundRecord, quit <-chan struct{}, stats *Stats,
	log *logger.Logger, deviceIndex, workSize int) (*gpuWorker, error) {
	if _, ok := deriver.(EOADeriver); !ok {
		return nil, ErrEOAOnly
	}

	w := &gpuWorker{
		id:       id,
		pattern:  pattern,
		results:  results,
		quit:     quit,
		stats:    stats,
		log:      log,
		workSize: workSize,
	}
	if err := w.initOpenCL(deviceIndex); err != nil {
		w.release()
		return nil, err
	}
	if err := w.createBuffers(); err != nil {
		w.release()
		return nil, err
	}
	return w, nil
}

func (w *gpuWorker) initOpenCL(deviceIndex int) error {
	var ret C.cl_int

	var numPlatforms C.cl_uint
	if C.clGetPlatformIDs(0, nil, &numPlatforms) != C.CL_SUCCESS || numPlatforms == 0 {
		return fmt.Errorf("%w: no OpenCL platforms", ErrNoDevice)
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)
	w.platform = platforms[0]

	var numDevices C.cl_uint
	if C.clGetDeviceIDs(w.platform, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices) != C.CL_SUCCESS || numDevices == 0 {
		return ErrNoDevice
	}
	if deviceIndex >= int(numDevices) {
		return fmt.Errorf("%w: device index %d out of range (%d devices)", ErrNoDevice, deviceIndex, numDevices)
	}
	devices := make([]C.cl_device_id, numDevices)
	C.clGetDeviceIDs(w.platform, C.CL_DEVICE_TYPE_GPU, numDevices, &devices[0], nil)
	w.device = devices[deviceIndex]

	w.log.Printf("GPU worker %d: using device %q", w.id, deviceName(w.device))

	w.context = C.clCreateContext(nil, 1, &w.device, nil, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: create context: %d", errInit, ret)
	}
	w.queue = C.clCreateCommandQueue(w.context, w.device, 0, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: create queue: %d", errInit, ret)
	}

	src, err := kernelFS.ReadFile("kernels/vanity.cl")
	if err != nil {
		return fmt.Errorf("%w: read kernel source: %v", errKernelCompile, err)
	}
	cSrc := C.CString(string(src))
	defer C.free(unsafe.Pointer(cSrc))
	srcLen := C.size_t(len(src))

	w.program = C.clCreateProgramWithSource(w.context, 1, &cSrc, &srcLen, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: create program: %d", errKernelCompile, ret)
	}

	opts := C.CString("-cl-mad-enable")
	defer C.free(unsafe.Pointer(opts))
	if C.clBuildProgram(w.program, 1, &w.device, opts, nil, nil) != C.CL_SUCCESS {
		var logSize C.size_t
		C.clGetProgramBuildInfo(w.program, w.device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize)
		buildLog := make([]byte, logSize)
		if logSize > 0 {
			C.clGetProgramBuildInfo(w.program, w.device, C.CL_PROGRAM_BUILD_LOG, logSize,
				unsafe.Pointer(&buildLog[0]), nil)
		}
		return fmt.Errorf("%w: %s", errKernelCompile, string(buildLog))
	}

	kName := C.CString("vanity_iterate_and_match")
	defer C.free(unsafe.Pointer(kName))
	w.kernel = C.clCreateKernel(w.program, kName, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: create kernel: %d", errKernelCompile, ret)
	}

	return nil
}

func (w *gpuWorker) createBuffers() error {
	var ret C.cl_int

	w.bufBasePoint = C.clCreateBuffer(w.context, C.CL_MEM_READ_ONLY, 64, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: base point: %d", errBuffer, ret)
	}

	gTable := computeGTable()
	w.bufGTable = C.clCreateBuffer(w.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(gTable)), unsafe.Pointer(&gTable[0]), &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: g table: %d", errBuffer, ret)
	}

	desc := packPatternDescriptor(w.pattern)
	w.bufPattern = C.clCreateBuffer(w.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(desc)), unsafe.Pointer(&desc[0]), &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: pattern descriptor: %d", errBuffer, ret)
	}

	w.bufResults = C.clCreateBuffer(w.context, C.CL_MEM_WRITE_ONLY,
		C.size_t(maxResultsPerBatch*resultEntrySize), nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: results: %d", errBuffer, ret)
	}

	w.bufCount = C.clCreateBuffer(w.context, C.CL_MEM_READ_WRITE, 4, nil, &ret)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: result count: %d", errBuffer, ret)
	}

	maxResults := C.cl_uint(maxResultsPerBatch)
	batchOffset := C.cl_uint(0)
	C.clSetKernelArg(w.kernel, 0, C.size_t(unsafe.Sizeof(w.bufBasePoint)), unsafe.Pointer(&w.bufBasePoint))
	C.clSetKernelArg(w.kernel, 1, C.size_t(unsafe.Sizeof(w.bufGTable)), unsafe.Pointer(&w.bufGTable))
	C.clSetKernelArg(w.kernel, 2, C.size_t(unsafe.Sizeof(w.bufPattern)), unsafe.Pointer(&w.bufPattern))
	C.clSetKernelArg(w.kernel, 3, C.size_t(unsafe.Sizeof(w.bufResults)), unsafe.Pointer(&w.bufResults))
	C.clSetKernelArg(w.kernel, 4, C.size_t(unsafe.Sizeof(w.bufCount)), unsafe.Pointer(&w.bufCount))
	C.clSetKernelArg(w.kernel, 5, C.size_t(unsafe.Sizeof(maxResults)), unsafe.Pointer(&maxResults))
	C.clSetKernelArg(w.kernel, 6, C.size_t(unsafe.Sizeof(batchOffset)), unsafe.Pointer(&batchOffset))

	return nil
}

// run loops batches until the pool stops. A failed batch is logged and
// retried after a short pause; device trouble costs throughput only.
func (w *gpuWorker) run() {
	defer w.release()

	for {
		select {
		case <-w.quit:
			return
		default:
		}

		if err := w.runBatch(); err != nil {
			w.log.Printf("GPU worker %d: batch error: %v", w.id, err)
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (w *gpuWorker) runBatch() error {
	// Fresh random base scalar and its public point, host-side.
	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate base key: %w", err)
	}
	var baseSecret [32]byte
	copy(baseSecret[:], crypto.FromECDSA(key))
	// Uncompressed serialization is 0x04 || x || y; the kernel wants x || y.
	basePub := crypto.FromECDSAPub(&key.PublicKey)[1:65]

	var ret C.cl_int
	ret = C.clEnqueueWriteBuffer(w.queue, w.bufBasePoint, C.CL_TRUE, 0, 64,
		unsafe.Pointer(&basePub[0]), 0, nil, nil)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: write base point: %d", errBuffer, ret)
	}

	zero := C.cl_uint(0)
	ret = C.clEnqueueWriteBuffer(w.queue, w.bufCount, C.CL_TRUE, 0, 4,
		unsafe.Pointer(&zero), 0, nil, nil)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: zero result count: %d", errBuffer, ret)
	}

	globalSize := C.size_t(w.workSize)
	ret = C.clEnqueueNDRangeKernel(w.queue, w.kernel, 1, nil, &globalSize, nil, 0, nil, nil)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: enqueue: %d", errKernelExec, ret)
	}
	if ret = C.clFinish(w.queue); ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: finish: %d", errKernelExec, ret)
	}

	var count C.cl_uint
	ret = C.clEnqueueReadBuffer(w.queue, w.bufCount, C.CL_TRUE, 0, 4,
		unsafe.Pointer(&count), 0, nil, nil)
	if ret != C.CL_SUCCESS {
		return fmt.Errorf("%w: read result count: %d", errBuffer, ret)
	}

	numResults := int(count)
	if numResults > maxResultsPerBatch {
		numResults = maxResultsPerBatch
	}

	if numResults > 0 {
		raw := make([]byte, numResults*resultEntrySize)
		ret = C.clEnqueueReadBuffer(w.queue, w.bufResults, C.CL_TRUE, 0,
			C.size_t(len(raw)), unsafe.Pointer(&raw[0]), 0, nil, nil)
		if ret != C.CL_SUCCESS {
			return fmt.Errorf("%w: read results: %d", errBuffer, ret)
		}
		w.reportVerified(&baseSecret, parseResultEntries(raw, numResults))
	}

	w.stats.Tested.Add(uint64(w.workSize))
	return nil
}

// reportVerified reconstructs each device hit on the host and reports only
// those that survive an independent derive-and-match. Unverified hits are
// silently discarded.
func (w *gpuWorker) reportVerified(baseSecret *[32]byte, hits []deviceResult) {
	for _, hit := range hits {
		if !hit.found {
			continue
		}
		secret := addScalarModN(baseSecret, hit.offset)
		addr, err := EOADeriver{}.Derive(&secret)
		if err != nil || !w.pattern.Matches(addr) {
			continue
		}
		w.stats.Matches.Add(1)
		rec := FoundRecord{Secret: secret, Address: addr, WorkerID: w.id}
		select {
		case w.results <- rec:
		case <-w.quit:
			return
		}
	}
}

func (w *gpuWorker) release() {
	for _, buf := range []C.cl_mem{w.bufBasePoint, w.bufGTable, w.bufPattern, w.bufResults, w.bufCount} {
		if buf != nil {
			C.clReleaseMemObject(buf)
		}
	}
	if w.kernel != nil {
		C.clReleaseKernel(w.kernel)
	}
	if w.program != nil {
		C.clReleaseProgram(w.program)
	}
	if w.queue != nil {
		C.clReleaseCommandQueue(w.queue)
	}
	if w.context != nil {
		C.clReleaseContext(w.context)
	}
}

func deviceName(dev C.cl_device_id) string {
	var size C.size_t
	if C.clGetDeviceInfo(dev, C.CL_DEVICE_NAME, 0, nil, &size) != C.CL_SUCCESS || size == 0 {
		return "unknown"
	}
	name := make([]byte, size)
	C.clGetDeviceInfo(dev, C.CL_DEVICE_NAME, size, unsafe.Pointer(&name[0]), nil)
	if n := len(name); n > 0 && name[n-1] == 0 {
		name = name[:n-1]
	}
	return string(name)
}

// GPUAvailable reports whether at least one OpenCL GPU device exists.
func GPUAvailable() bool {
	return len(ListDevices()) > 0
}

// ListDevices returns the names of available OpenCL GPU devices across all
// platforms.
func ListDevices() []string {
	var numPlatforms C.cl_uint
	if C.clGetPlatformIDs(0, nil, &numPlatforms) != C.CL_SUCCESS || numPlatforms == 0 {
		return nil
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	C.clGetPlatformIDs(numPlatforms, &platforms[0], nil)

	var names []string
	for _, p := range platforms {
		var numDevices C.cl_uint
		if C.clGetDeviceIDs(p, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices) != C.CL_SUCCESS || numDevices == 0 {
			continue
		}
		devices := make([]C.cl_device_id, numDevices)
		C.clGetDeviceIDs(p, C.CL_DEVICE_TYPE_GPU, numDevices, &devices[0], nil)
		for _, d := range devices {
			names = append(names, deviceName(d))
		}
	}
	return names
}
