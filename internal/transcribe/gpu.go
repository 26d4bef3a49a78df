package transcribe

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// VRAM thresholds in MB for picking a model size.
const (
	vramLarge  = 10000
	vramMedium = 5000
	vramSmall  = 2000
	vramBase   = 1000
)

// GPUInfo describes the detected GPU, if any.
type GPUInfo struct {
	Available bool
	Name      string
	VRAMMB    int
}

// VRAMString formats the VRAM amount for display.
func (g GPUInfo) VRAMString() string {
	if g.VRAMMB >= 1024 {
		return fmt.Sprintf("%.0fGB", float64(g.VRAMMB)/1024)
	}
	return fmt.Sprintf("%dMB", g.VRAMMB)
}

// RecommendedModel picks a comfortable model size for the detected VRAM. CPU
// mode recommends base.
func (g GPUInfo) RecommendedModel() string {
	if !g.Available {
		return "base"
	}
	switch {
	case g.VRAMMB >= vramLarge:
		return "large"
	case g.VRAMMB >= vramMedium:
		return "medium"
	case g.VRAMMB >= vramSmall:
		return "small"
	default:
		return "base"
	}
}

// MaxModel picks the largest model size that fits the detected VRAM.
func (g GPUInfo) MaxModel() string {
	if !g.Available {
		return "base"
	}
	switch {
	case g.VRAMMB >= vramLarge:
		return "large"
	case g.VRAMMB >= vramMedium:
		return "medium"
	case g.VRAMMB >= vramSmall:
		return "small"
	case g.VRAMMB >= vramBase:
		return "base"
	default:
		return "tiny"
	}
}

// CanRunModel reports whether the model size fits the detected VRAM. CPU mode
// always reports true; recognition just runs slower.
func (g GPUInfo) CanRunModel(modelSize string) bool {
	if !g.Available {
		return true
	}
	requirements := map[string]int{
		"tiny":   vramBase,
		"base":   vramBase,
		"small":  vramSmall,
		"medium": vramMedium,
		"large":  vramLarge,
	}
	required, ok := requirements[modelSize]
	if !ok {
		required = vramBase
	}
	return g.VRAMMB >= required
}

// Probe reports GPU capabilities. Implementations must not fail; unknown
// hardware is reported as unavailable.
type Probe interface {
	Detect() GPUInfo
}

// NvidiaProbe detects NVIDIA GPUs through nvidia-smi.
type NvidiaProbe struct{}

func (NvidiaProbe) Detect() GPUInfo { return DetectGPU() }

// DefaultModelSize picks a model size from a probe report. A nil probe or an
// unavailable GPU yields the CPU-safe default.
func DefaultModelSize(probe Probe) string {
	if probe == nil {
		return "base"
	}
	return probe.Detect().RecommendedModel()
}

// DetectGPU probes for an NVIDIA GPU via nvidia-smi. Detection failure is not
// an error; it yields CPU mode.
func DetectGPU() GPUInfo {
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=name,memory.total",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return GPUInfo{}
	}
	return parseNvidiaSMI(string(out))
}

// parseNvidiaSMI parses one "name, vram_mb" line of nvidia-smi CSV output.
func parseNvidiaSMI(output string) GPUInfo {
	line := strings.TrimSpace(output)
	if line == "" {
		return GPUInfo{}
	}
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	parts := strings.SplitN(line, ", ", 2)
	if len(parts) < 2 {
		return GPUInfo{}
	}
	vram, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return GPUInfo{}
	}
	return GPUInfo{Available: true, Name: strings.TrimSpace(parts[0]), VRAMMB: vram}
}
