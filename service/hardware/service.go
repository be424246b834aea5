package hardware

import (
	"context"
	"log"
	"runtime"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner/local"
)

// Service detects the number of schedulable processor cores. Detection is a
// pure query with no side effects; it never fails, falling back through a
// chain of probes down to a conservative default of one core.
type Service struct {
	fs      afs.Service
	run     func(ctx context.Context, command string) (string, int, error)
	cpuInfo string
}

// New creates a new hardware detection service
func New() *Service {
	ret := &Service{fs: afs.New(), cpuInfo: cpuInfoLocation}
	ret.run = ret.runShell
	return ret
}

// DetectInput has no parameters; detection is driven by the host OS.
type DetectInput struct{}

// DetectOutput carries the detected core count and which probe produced it.
type DetectOutput struct {
	Cores  int    `json:"cores"`
	Source string `json:"source"`
}

const (
	cpuInfoLocation = "/proc/cpuinfo"
	defaultCores    = 1
)

// probesFor returns the shell core-count queries for the given OS, primary
// first.
func probesFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"sysctl -n hw.physicalcpu", "sysctl -n hw.ncpu"}
	default:
		return []string{"nproc", "getconf _NPROCESSORS_ONLN"}
	}
}

// Detect resolves the core count through the probe chain.
func (s *Service) Detect(ctx context.Context, input *DetectInput, output *DetectOutput) error {
	for _, probe := range probesFor(runtime.GOOS) {
		stdout, status, err := s.run(ctx, probe)
		if err != nil || status != 0 {
			continue
		}
		if cores, ok := parseCoreCount(stdout); ok {
			output.Cores = cores
			output.Source = probe
			return nil
		}
	}
	if cores, ok := s.countCPUInfo(ctx); ok {
		output.Cores = cores
		output.Source = s.cpuInfo
		return nil
	}
	log.Printf("[WARN] unable to detect core count, assuming %d core", defaultCores)
	output.Cores = defaultCores
	output.Source = "default"
	return nil
}

func (s *Service) runShell(ctx context.Context, command string) (string, int, error) {
	session, err := gosh.New(ctx, local.New())
	if err != nil {
		return "", -1, err
	}
	defer session.Close()
	return session.Run(ctx, command)
}

// countCPUInfo counts processor entries in the kernel pseudo-file.
func (s *Service) countCPUInfo(ctx context.Context) (int, bool) {
	data, err := s.fs.DownloadWithURL(ctx, s.cpuInfo)
	if err != nil {
		return 0, false
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "processor") {
			count++
		}
	}
	return count, count > 0
}

func parseCoreCount(stdout string) (int, bool) {
	value := strings.TrimSpace(stdout)
	if idx := strings.IndexByte(value, '\n'); idx != -1 {
		value = strings.TrimSpace(value[:idx])
	}
	cores, err := strconv.Atoi(value)
	if err != nil || cores < 1 {
		return 0, false
	}
	return cores, true
}
