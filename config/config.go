/*
DESCRIPTION
  config.go defines the stitcher orchestrator's top-level configuration:
  camera count, output geometry, dewarp/scale/feature-match modes, and
  the per-component tuning structs threaded through at setup (§4.G, §6).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the stitcher's top-level configuration and the
// resolution-mode presets that bundle viewpoint ranges, merge widths and
// camera counts (§6).
package config

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/featurematch"
)

// DewarpMode selects the fisheye projection model.
type DewarpMode uint8

const (
	Sphere DewarpMode = iota
	Bowl
)

func (m DewarpMode) String() string {
	if m == Bowl {
		return "bowl"
	}
	return "sphere"
}

// ScaleMode names whether remap scale factors are shared across a
// camera's two halves or kept independent. The stitcher stores it but does
// not read it: each camera's left and right factors are always kept
// independent.
type ScaleMode uint8

const (
	SingleConst ScaleMode = iota
	DualConst
	DualCurve
)

// FMMode enables or disables feature matching. FMNone disables it; FMDefault,
// FMCluster and FMCapi all enable the same gocv-based featurematch.Matcher.
type FMMode uint8

const (
	FMNone FMMode = iota
	FMDefault
	FMCluster
	FMCapi
)

// Config is the stitcher orchestrator's full configuration.
type Config struct {
	Logger logging.Logger

	CameraNum       int
	OutputWidth     int
	OutputHeight    int
	DewarpMode      DewarpMode
	ScaleMode       ScaleMode
	BlendPyrLevels  int
	FMMode          FMMode
	BowlConfig      cam.BowlConfig
	ViewpointsRange []float32
	Cameras         []cam.Info

	// MergeWidths, when non-empty, gives a per-camera merge_width trim for
	// the copy-area widening described in §4.F. A zero entry disables
	// trimming for that camera.
	MergeWidths []int

	FeatureMatch featurematch.Config
}

// Validate checks Config for internal consistency, defaulting fields that
// have sane defaults and logging anything it defaults (mirroring the
// ambient config-validation pattern used elsewhere in this codebase).
func (c *Config) Validate() error {
	if c.CameraNum <= 0 {
		return errStr("config: camera_num must be positive")
	}
	if c.OutputWidth <= 0 || c.OutputHeight <= 0 {
		return errStr("config: output_size must be positive")
	}
	if len(c.ViewpointsRange) != c.CameraNum {
		return errStr("config: viewpoints_range length must equal camera_num")
	}
	if len(c.Cameras) != c.CameraNum {
		return errStr("config: camera_info count must equal camera_num")
	}
	if c.BlendPyrLevels <= 0 {
		c.LogInvalidField("blend_pyr_levels", 1)
		c.BlendPyrLevels = 1
	}
	if c.BlendPyrLevels > 4 {
		c.LogInvalidField("blend_pyr_levels", 4)
		c.BlendPyrLevels = 4
	}
	if len(c.MergeWidths) == 0 {
		c.MergeWidths = make([]int, c.CameraNum)
	}
	if len(c.MergeWidths) != c.CameraNum {
		return errStr("config: merge_widths length must equal camera_num when set")
	}
	return nil
}

// LogInvalidField logs a defaulted field the way the rest of this
// codebase's config types do.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

type errStr string

func (e errStr) Error() string { return string(e) }
