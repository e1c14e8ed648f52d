/*
DESCRIPTION
  presets.go bundles the resolution-mode tags into ready-to-use viewpoint
  ranges, merge widths, feature-match tuning and bowl configs (§6). Values
  are the camera-rig defaults of the reference multi-camera stitching
  setups this core was distilled from.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package presets bundles the resolution-mode tags (§6) into concrete
// viewpoint ranges, merge widths, and feature-match tuning for common
// camera rigs.
package presets

import (
	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/featurematch"
)

// Mode is a resolution-mode tag, sugar for a bundle of viewpoint ranges,
// merge widths, and camera count.
type Mode uint8

const (
	Mode1080p2Cams Mode = iota
	Mode1080p4Cams
	Mode4k2Cams
	Mode8k3Cams
	Mode8k6Cams
)

// Preset is the resolved bundle for a resolution-mode tag.
type Preset struct {
	CameraNum       int
	ViewpointsRange []float32
	MergeWidths     []int
	FeatureMatch    featurematch.Config
	BowlConfig      cam.BowlConfig
}

// For resolves mode into its concrete Preset. It panics on an unknown mode,
// since Mode is a closed enum controlled entirely by this package.
func For(mode Mode) Preset {
	switch mode {
	case Mode1080p2Cams:
		return Preset{
			CameraNum:       2,
			ViewpointsRange: []float32{202.8, 202.8},
			MergeWidths:     []int{0, 0},
			FeatureMatch:    fmDefault2cam(),
		}
	case Mode1080p4Cams:
		return Preset{
			CameraNum:       4,
			ViewpointsRange: []float32{64, 160, 64, 160},
			MergeWidths:     []int{0, 0, 0, 0},
			FeatureMatch:    fmDefault4cam(),
			BowlConfig: cam.BowlConfig{
				A: 6060.0, B: 4388.0, C: 3003.4,
				AngleStart: 0, AngleEnd: 360,
				CenterZ: 1500.0, WallHeight: 1800.0, GroundLength: 3000.0,
			},
		}
	case Mode4k2Cams:
		return Preset{
			CameraNum:       2,
			ViewpointsRange: []float32{202.8, 202.8},
			MergeWidths:     []int{0, 0},
			FeatureMatch:    fmDefault2cam(),
		}
	case Mode8k3Cams:
		return Preset{
			CameraNum:       3,
			ViewpointsRange: []float32{144, 144, 144},
			MergeWidths:     []int{256, 256, 256},
			FeatureMatch:    fm8k3cam(),
		}
	case Mode8k6Cams:
		// original_source/capi/ctxs/stitch_params.h has no six-camera rig;
		// its 8K tables stop at CamC3C8K/CamD3C8K (3 cameras each). These
		// six evenly spaced 72-degree viewpoints (360/6 baseline plus the
		// same proportional overlap CamC3C8K uses over its 120-degree
		// baseline) and a merge width scaled down to match the narrower
		// overlap are derived, not ported; see DESIGN.md.
		return Preset{
			CameraNum:       6,
			ViewpointsRange: []float32{72, 72, 72, 72, 72, 72},
			MergeWidths:     []int{128, 128, 128, 128, 128, 128},
			FeatureMatch:    fm8k6cam(),
		}
	default:
		panic("presets: unknown resolution mode")
	}
}

func fmDefault2cam() featurematch.Config {
	return featurematch.Config{
		StitchMinWidth:    136,
		MinCorners:        4,
		OffsetFactor:      0.9,
		DeltaMeanOffset:   120,
		RecurOffsetError:  8,
		MaxAdjustedOffset: 24,
		MaxValidOffsetY:   8,
		MaxTrackError:     28,
	}
}

func fmDefault4cam() featurematch.Config {
	return featurematch.Config{
		StitchMinWidth:    136,
		MinCorners:        4,
		OffsetFactor:      0.8,
		DeltaMeanOffset:   120,
		RecurOffsetError:  8,
		MaxAdjustedOffset: 24,
		MaxValidOffsetY:   20,
		MaxTrackError:     28,
	}
}

func fm8k3cam() featurematch.Config {
	return featurematch.Config{
		StitchMinWidth:    136,
		MinCorners:        4,
		OffsetFactor:      0.95,
		DeltaMeanOffset:   256,
		RecurOffsetError:  4,
		MaxAdjustedOffset: 24,
		MaxValidOffsetY:   20,
		MaxTrackError:     6,
	}
}

func fm8k6cam() featurematch.Config {
	return featurematch.Config{
		StitchMinWidth:    256,
		MinCorners:        4,
		OffsetFactor:      0.6,
		DeltaMeanOffset:   256,
		RecurOffsetError:  2,
		MaxAdjustedOffset: 24,
		MaxValidOffsetY:   32,
		MaxTrackError:     10,
	}
}
