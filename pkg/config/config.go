package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/df07/go-simple-pathtracer/pkg/output"
	"github.com/df07/go-simple-pathtracer/pkg/renderer"
)

// Settings holds everything read from the environment
type Settings struct {
	Scene          string
	Width          int
	Height         int
	Samples        int
	MaxDepth       int
	Workers        int // 0 = detect logical CPUs
	Seed           int64
	Gamma          float32
	Output         string // PNG path written by the CLI
	ThumbnailWidth int    // 0 disables thumbnails
	Port           string
	S3             output.S3Config
}

// Default returns the settings used when nothing is configured
func Default() Settings {
	defaults := renderer.DefaultConfig()
	return Settings{
		Scene:    "default",
		Width:    defaults.Width,
		Height:   defaults.Height,
		Samples:  defaults.SamplesPerPixel,
		MaxDepth: defaults.MaxDepth,
		Workers:  defaults.NumWorkers,
		Seed:     defaults.Seed,
		Gamma:    defaults.Gamma,
		Output:   "output/render.png",
		Port:     "8080",
	}
}

// Load reads envFile if it exists and then applies environment variables over the defaults
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	s := Default()
	var err error
	s.Scene = getEnv("PATHTRACER_SCENE", s.Scene)
	s.Output = getEnv("PATHTRACER_OUTPUT", s.Output)
	s.Port = getEnv("PATHTRACER_PORT", s.Port)

	if s.Width, err = getEnvInt("PATHTRACER_WIDTH", s.Width); err != nil {
		return Settings{}, err
	}
	if s.Height, err = getEnvInt("PATHTRACER_HEIGHT", s.Height); err != nil {
		return Settings{}, err
	}
	if s.Samples, err = getEnvInt("PATHTRACER_SAMPLES", s.Samples); err != nil {
		return Settings{}, err
	}
	if s.MaxDepth, err = getEnvInt("PATHTRACER_MAX_DEPTH", s.MaxDepth); err != nil {
		return Settings{}, err
	}
	if s.Workers, err = getEnvInt("PATHTRACER_WORKERS", s.Workers); err != nil {
		return Settings{}, err
	}
	if s.ThumbnailWidth, err = getEnvInt("PATHTRACER_THUMBNAIL_WIDTH", s.ThumbnailWidth); err != nil {
		return Settings{}, err
	}
	if s.Seed, err = getEnvInt64("PATHTRACER_SEED", s.Seed); err != nil {
		return Settings{}, err
	}
	if s.Gamma, err = getEnvFloat32("PATHTRACER_GAMMA", s.Gamma); err != nil {
		return Settings{}, err
	}

	s.S3 = output.S3Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    getEnv("S3_REGION", "us-east-1"),
		Bucket:    os.Getenv("S3_BUCKET"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Prefix:    os.Getenv("S3_PREFIX"),
		PublicURL: os.Getenv("CDN_URL"),
	}

	return s, nil
}

// RenderConfig converts the settings into a validated renderer configuration
func (s Settings) RenderConfig() (renderer.Config, error) {
	config := renderer.DefaultConfig()
	config.Width = s.Width
	config.Height = s.Height
	config.SamplesPerPixel = s.Samples
	config.MaxDepth = s.MaxDepth
	config.Seed = s.Seed
	config.Gamma = s.Gamma
	config.NumWorkers = s.Workers
	if config.NumWorkers == 0 {
		config.NumWorkers = DetectWorkers()
	}

	if err := config.Validate(); err != nil {
		return renderer.Config{}, err
	}
	return config, nil
}

// DetectWorkers returns the number of logical CPUs
func DetectWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Host describes the machine a render runs on
type Host struct {
	CPUModel     string
	LogicalCores int
	ClockGHz     float64
	TotalRAMGB   uint64
}

// HostInfo queries CPU and memory details for the startup log line
func HostInfo() (Host, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return Host{}, fmt.Errorf("cpu info: %w", err)
	}
	if len(cpuInfo) == 0 {
		return Host{}, fmt.Errorf("no CPU information available")
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return Host{}, fmt.Errorf("memory info: %w", err)
	}

	return Host{
		CPUModel:     cpuInfo[0].ModelName,
		LogicalCores: DetectWorkers(),
		ClockGHz:     cpuInfo[0].Mhz / 1000,
		TotalRAMGB:   memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// String formats the host for logs
func (h Host) String() string {
	return fmt.Sprintf("%s (%d logical cores, %.1f GHz, %d GB RAM)", h.CPUModel, h.LogicalCores, h.ClockGHz, h.TotalRAMGB)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvFloat32(key string, fallback float32) (float32, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return float32(f), nil
}
