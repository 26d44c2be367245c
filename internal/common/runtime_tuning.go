package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// Runtime profiles by available CPU count
const (
	smallServerGOGC     = 400
	smallServerMemLimit = 2.5 * 1024 * 1024 * 1024 // 2.5GB

	largeServerGOGC     = 800
	largeServerMemLimit = 8 * 1024 * 1024 * 1024 // 8GB
)

// InitRuntimeDefaults applies GC and scheduler settings sized to the host.
// Quoting is allocation-heavy in bursts, so a high GOGC with GOMEMLIMIT as
// the backstop keeps the sync.Pool scratch values warm between requests.
// Any of GOGC, GOMAXPROCS, GOMEMLIMIT set in the environment wins.
func InitRuntimeDefaults() {
	gogc := largeServerGOGC
	memLimit := int64(largeServerMemLimit)
	if runtime.NumCPU() <= 2 {
		gogc = smallServerGOGC
		memLimit = int64(smallServerMemLimit)
	}

	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(gogc)
		log.Info().Int("GOGC", gogc).Msg("[runtime] Set GOGC")
	}

	if os.Getenv("GOMAXPROCS") == "" {
		maxProcs := runtime.NumCPU() / 2
		if maxProcs < 1 {
			maxProcs = 1
		}
		runtime.GOMAXPROCS(maxProcs)
		log.Info().
			Int("GOMAXPROCS", maxProcs).
			Int("total_cpu", runtime.NumCPU()).
			Msg("[runtime] Set GOMAXPROCS")
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(memLimit)
		log.Info().
			Int64("GOMEMLIMIT_bytes", memLimit).
			Msg("[runtime] Set memory limit")
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Str("go_version", runtime.Version()).
		Msg("[runtime] Current runtime settings")
}
