/*
DESCRIPTION
  config.go defines the feature matcher's tuning parameters (§4.D).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package featurematch detects and tracks corner features between two
// neighboring remapped frames in an overlap region and derives left/right
// scale corrections for the geomap remapper of the two neighboring
// cameras (§4.D).
package featurematch

// Config tunes one overlap pair's matcher.
type Config struct {
	StitchMinWidth    int     // Minimum overlap width the matcher will run on.
	MinCorners        int     // Minimum retained correspondences to accept an update.
	OffsetFactor      float64 // Blend weight of the new median offset vs the previous one.
	DeltaMeanOffset   float64 // Max allowed deviation from the previous frame's offset.
	RecurOffsetError  float64 // Reserved for recursive offset-error gating (tuning only).
	MaxAdjustedOffset float64 // Max per-frame step in offset_x.
	MaxValidOffsetY   float64 // Correspondences with |dy| above this are dropped.
	MaxTrackError     float64 // Correspondences with squared track error above this are dropped.
}
