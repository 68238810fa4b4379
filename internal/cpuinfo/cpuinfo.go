// Package cpuinfo probes host CPU capabilities once at process start. The
// resulting feature flags are fixed for the life of the process and are
// consumed by kernel-selection logic such as backends gating reduced-
// precision operations.
package cpuinfo

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Features is the fixed set of boolean capability flags exposed by the probe.
type Features struct {
	AVX     bool
	AVX2    bool
	AVX512F bool
	F16C    bool
	NEON    bool
}

var (
	probeOnce sync.Once
	features  Features
)

// Probe returns the host's CPU features. The underlying detection runs once;
// subsequent calls return the cached result.
func Probe() Features {
	probeOnce.Do(func() {
		features = detect()
	})
	return features
}

func detect() Features {
	switch runtime.GOARCH {
	case "arm64":
		// NEON is architecturally guaranteed on arm64.
		return Features{NEON: true, F16C: true}
	case "amd64":
		return detectFromProcCPUInfo()
	default:
		return Features{}
	}
}

// detectFromProcCPUInfo parses the flags line of /proc/cpuinfo. On hosts
// without procfs every flag stays false, which only disables optional fast
// paths.
func detectFromProcCPUInfo() Features {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return Features{}
	}
	defer f.Close()

	var out Features
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "flags") {
			continue
		}
		for _, flag := range strings.Fields(line) {
			switch flag {
			case "avx":
				out.AVX = true
			case "avx2":
				out.AVX2 = true
			case "avx512f":
				out.AVX512F = true
			case "f16c":
				out.F16C = true
			}
		}
		break
	}
	return out
}
