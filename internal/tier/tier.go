// Package tier holds the subscription tier table and the per-user
// monthly minute metering used to admit or reject captioning work.
// Payment and authentication live outside this module.
package tier

import (
	"errors"
	"fmt"
	"math"
)

// Tier is a subscription level.
type Tier string

const (
	Free    Tier = "free"
	Starter Tier = "starter"
	Pro     Tier = "pro"
)

// Features are the per-tier capability switches.
type Features struct {
	BasicEditing       bool
	Animations         bool
	SRTExport          bool
	VideoExport        bool
	CustomFonts        bool
	BatchProcessing    bool
	PriorityProcessing bool
	APIAccess          bool
	WhiteLabel         bool
}

// Config describes one subscription tier.
type Config struct {
	Name            string
	PriceUSD        int
	MonthlyMinutes  int
	MaxVideoMinutes int
	MaxFileSizeMB   int
	ExportQuality   string
	Watermark       bool
	Features        Features
}

var tiers = map[Tier]Config{
	Free: {
		Name:            "Free",
		PriceUSD:        0,
		MonthlyMinutes:  10,
		MaxVideoMinutes: 10,
		MaxFileSizeMB:   100,
		ExportQuality:   "720p",
		Watermark:       true,
		Features: Features{
			BasicEditing: true,
			Animations:   true,
			SRTExport:    true,
			VideoExport:  true,
		},
	},
	Starter: {
		Name:            "Starter",
		PriceUSD:        14,
		MonthlyMinutes:  90,
		MaxVideoMinutes: 30,
		MaxFileSizeMB:   500,
		ExportQuality:   "1080p",
		Features: Features{
			BasicEditing:       true,
			Animations:         true,
			SRTExport:          true,
			VideoExport:        true,
			PriorityProcessing: true,
		},
	},
	Pro: {
		Name:            "Pro",
		PriceUSD:        39,
		MonthlyMinutes:  360,
		MaxVideoMinutes: 60,
		MaxFileSizeMB:   2000,
		ExportQuality:   "4k",
		Features: Features{
			BasicEditing:       true,
			Animations:         true,
			SRTExport:          true,
			VideoExport:        true,
			CustomFonts:        true,
			BatchProcessing:    true,
			PriorityProcessing: true,
			APIAccess:          true,
			WhiteLabel:         true,
		},
	},
}

// GetConfig returns the configuration for a tier. Unknown tiers fall
// back to Free.
func GetConfig(t Tier) Config {
	if cfg, ok := tiers[t]; ok {
		return cfg
	}
	return tiers[Free]
}

// Valid reports whether t names a known tier.
func Valid(t Tier) bool {
	_, ok := tiers[t]
	return ok
}

var (
	ErrVideoTooLong  = errors.New("video exceeds the tier's maximum length")
	ErrFileTooLarge  = errors.New("file exceeds the tier's maximum upload size")
	ErrQuotaExceeded = errors.New("monthly minute quota exhausted")
)

// MinutesFor converts a video duration in seconds to billed minutes,
// rounding up.
func MinutesFor(durationSeconds float64) int {
	if durationSeconds <= 0 {
		return 0
	}
	return int(math.Ceil(durationSeconds / 60))
}

// CheckVideo validates a captioning request against the tier limits
// and the minutes already used this month.
func CheckVideo(t Tier, durationSeconds float64, fileSizeBytes int64, usedMinutes int) error {
	cfg := GetConfig(t)

	if fileSizeBytes > int64(cfg.MaxFileSizeMB)*1024*1024 {
		return fmt.Errorf("%w: limit %d MB", ErrFileTooLarge, cfg.MaxFileSizeMB)
	}

	minutes := MinutesFor(durationSeconds)
	if minutes > cfg.MaxVideoMinutes {
		return fmt.Errorf("%w: limit %d minutes", ErrVideoTooLong, cfg.MaxVideoMinutes)
	}
	if usedMinutes+minutes > cfg.MonthlyMinutes {
		return fmt.Errorf("%w: %d of %d minutes used", ErrQuotaExceeded, usedMinutes, cfg.MonthlyMinutes)
	}

	return nil
}
