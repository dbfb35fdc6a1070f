package oracle

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// SystemMemory reports host memory capacity, used to derive cache
// capacity as a percentage of total system RAM.
type SystemMemory interface {
	TotalSystemMemoryBytes() uint64
}

// ProcSystemMemory reads /proc/meminfo on Linux; on any other platform,
// or if that read fails, it falls back to a runtime.MemStats-derived
// estimate.
type ProcSystemMemory struct{}

// TotalSystemMemoryBytes implements SystemMemory.
func (ProcSystemMemory) TotalSystemMemoryBytes() uint64 {
	if runtime.GOOS == "linux" {
		if v, ok := readMemTotalLinux(); ok {
			return v
		}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	// Sys is the process's own reservation, not host RAM; used only as a
	// conservative fallback when /proc/meminfo is unavailable.
	if ms.Sys > 0 {
		return ms.Sys * 64
	}
	return 1 << 30 // 1 GiB, a safe non-zero floor.
}

func readMemTotalLinux() (uint64, bool) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}
