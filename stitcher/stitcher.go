/*
DESCRIPTION
  stitcher.go implements the stitcher orchestrator (§4.G): the setter API
  that configures camera count, output geometry and per-camera intrinsics;
  first-call setup that derives the panorama layout, builds per-camera
  dewarp tables and GeoMappers, and wires a Blender/Matcher for each
  overlapping pair; and the per-frame pipeline that remaps every camera
  concurrently, blends and copies into the output panorama, and runs
  feature-matching whose corrections are applied to the next frame.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stitcher orchestrates the full 360-degree stitch pipeline: per
// camera dewarp remap, pairwise overlap blending, non-overlap copying,
// and feature-match scale correction, wired from a single Config (§4.G).
package stitcher

import (
	"context"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stitch360/blend"
	"github.com/ausocean/stitch360/bufpool"
	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/config"
	"github.com/ausocean/stitch360/config/presets"
	"github.com/ausocean/stitch360/copytask"
	"github.com/ausocean/stitch360/dewarp"
	"github.com/ausocean/stitch360/diagnostics"
	"github.com/ausocean/stitch360/featurematch"
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/remap"
	"github.com/ausocean/stitch360/xerror"
)

// cameraUnit holds one camera's runtime state: its dewarp table, one
// GeoMapper per panorama piece (two for the wrapping camera 0), and its
// non-overlap copy areas.
type cameraUnit struct {
	info      cam.Info
	slice     sliceLayout
	table     *dewarp.Table
	mappers   []*remap.GeoMapper
	copyAreas []copytask.Area

	// leftFactor and rightFactor are this camera's current feature-match
	// corrections, applied uniformly across whichever mapper piece faces
	// that neighbor (§4.D, §4.G step 7).
	leftFactor, rightFactor geom.F32Pair
}

// applyFactors pushes the camera's cached left/right factors into its
// mapper(s). A single-piece camera's one mapper sees both halves; the
// wrapping camera's two pieces each see one side uniformly, since each
// piece faces only one neighbor.
func (c *cameraUnit) applyFactors() {
	if len(c.mappers) == 1 {
		c.mappers[0].SetFactors(c.leftFactor, c.rightFactor)
		return
	}
	for i, m := range c.mappers {
		if i == 0 {
			m.SetFactors(c.rightFactor, c.rightFactor)
		} else {
			m.SetFactors(c.leftFactor, c.leftFactor)
		}
	}
}

// overlapUnit holds one adjacent pair's blend and, when enabled, feature
// match state.
type overlapUnit struct {
	camI, camJ int
	rect       geom.Rect
	blender    *blend.Blender
	matcher    *featurematch.Matcher
	pairIndex  int
	centers    featurematch.Centers
	fmLeft     geom.Rect
	fmRight    geom.Rect
}

// Stitcher is the panorama stitch orchestrator. It is configured once via
// the Set* methods and then driven per-frame with StitchBuffers.
type Stitcher struct {
	log logging.Logger
	cfg config.Config

	mu         sync.Mutex
	configured bool
	cameras    []cameraUnit
	overlaps   []overlapUnit
	tilePool   *bufpool.Pool
	pendingFM  map[int]featurematch.Result // applied at the start of the next frame.
	recorder   *diagnostics.OffsetRecorder // optional, off the hot path.
}

// New returns an unconfigured Stitcher. Call the Set* methods (or pass a
// fully populated Config to Configure) before the first StitchBuffers.
func New(log logging.Logger) *Stitcher {
	return &Stitcher{log: log, pendingFM: make(map[int]featurematch.Result)}
}

// SetCameraNum sets the camera count. Changing it invalidates setup.
func (s *Stitcher) SetCameraNum(n int) { s.cfg.CameraNum = n; s.invalidate() }

// SetOutputSize sets the panorama output size. Changing it invalidates setup.
func (s *Stitcher) SetOutputSize(w, h int) {
	s.cfg.OutputWidth, s.cfg.OutputHeight = w, h
	s.invalidate()
}

// SetDewarpMode selects sphere or bowl projection.
func (s *Stitcher) SetDewarpMode(m config.DewarpMode) { s.cfg.DewarpMode = m; s.invalidate() }

// SetScaleMode records the remap scale-factor mode in the configuration.
// No pipeline stage reads it; scale factors always come from the feature
// matcher, with each camera's left and right factors kept independent.
func (s *Stitcher) SetScaleMode(m config.ScaleMode) { s.cfg.ScaleMode = m }

// SetBlendPyrLevels sets the Laplacian pyramid depth used by every
// overlap's Blender.
func (s *Stitcher) SetBlendPyrLevels(levels int) { s.cfg.BlendPyrLevels = levels; s.invalidate() }

// SetFMMode enables feature matching, or disables it (FMNone). Every mode
// other than FMNone uses the same featurematch.Matcher.
func (s *Stitcher) SetFMMode(m config.FMMode) { s.cfg.FMMode = m; s.invalidate() }

// SetBowlConfig sets the surround-view bowl geometry, used only in Bowl
// dewarp mode.
func (s *Stitcher) SetBowlConfig(c cam.BowlConfig) { s.cfg.BowlConfig = c; s.invalidate() }

// SetViewpointsRange sets each camera's configured angular FOV extent,
// used to lay out round-view slices (§4.G step 1).
func (s *Stitcher) SetViewpointsRange(r []float32) {
	s.cfg.ViewpointsRange = append([]float32(nil), r...)
	s.invalidate()
}

// SetStitchInfo sets every camera's calibration and, optionally, a
// per-camera merge-width trim (§4.F). mergeWidths may be nil.
func (s *Stitcher) SetStitchInfo(infos []cam.Info, mergeWidths []int) {
	s.cfg.Cameras = append([]cam.Info(nil), infos...)
	if mergeWidths != nil {
		s.cfg.MergeWidths = append([]int(nil), mergeWidths...)
	}
	s.invalidate()
}

// SetCameraInfo sets a single camera's calibration incrementally.
func (s *Stitcher) SetCameraInfo(i int, info cam.Info) {
	for len(s.cfg.Cameras) <= i {
		s.cfg.Cameras = append(s.cfg.Cameras, cam.Info{})
	}
	s.cfg.Cameras[i] = info
	s.invalidate()
}

// SetFeatureMatch sets the feature-match tuning shared by every overlap
// pair's Matcher.
func (s *Stitcher) SetFeatureMatch(c featurematch.Config) { s.cfg.FeatureMatch = c; s.invalidate() }

// SetResolutionMode applies a resolution-mode preset's camera count,
// viewpoint ranges, merge widths, feature-match tuning and bowl config in
// one call (§6). It leaves OutputWidth/OutputHeight, DewarpMode and
// FMMode untouched, since those are rig-deployment choices the preset
// does not dictate.
func (s *Stitcher) SetResolutionMode(mode presets.Mode) {
	p := presets.For(mode)
	s.cfg.CameraNum = p.CameraNum
	s.cfg.ViewpointsRange = append([]float32(nil), p.ViewpointsRange...)
	s.cfg.MergeWidths = append([]int(nil), p.MergeWidths...)
	s.cfg.FeatureMatch = p.FeatureMatch
	s.cfg.BowlConfig = p.BowlConfig
	s.invalidate()
}

// SetOffsetRecorder attaches an optional recorder of every overlap pair's
// per-frame feature-match outcome, for operators tuning FMConfig. Pass
// nil to detach.
func (s *Stitcher) SetOffsetRecorder(r *diagnostics.OffsetRecorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

func (s *Stitcher) invalidate() {
	s.mu.Lock()
	s.configured = false
	s.mu.Unlock()
}

// configure runs the first-call setup (§4.G steps 1-7): it lays out
// round-view slices, derives overlaps and copy areas, and builds each
// camera's dewarp table/GeoMappers and each overlap's Blender/Matcher.
func (s *Stitcher) configure() error {
	if err := s.cfg.Validate(); err != nil {
		return xerror.New(xerror.Param, "stitcher", err)
	}

	slices := estimateRoundSlices(s.cfg.ViewpointsRange, s.cfg.OutputWidth, s.cfg.OutputHeight)
	overlapsRaw := estimateOverlap(slices, s.cfg.OutputHeight)

	cameras := make([]cameraUnit, s.cfg.CameraNum)
	piecesByCam := make([][]pieceLayout, s.cfg.CameraNum)
	for i := range cameras {
		pieces := cameraPieces(slices[i], s.cfg.OutputHeight)
		piecesByCam[i] = pieces

		table := dewarp.NewTable(slices[i].slice.Width, s.cfg.OutputHeight)
		gen := s.generatorFor(i, slices[i])
		gen.GenTable(table)

		mappers := make([]*remap.GeoMapper, len(pieces))
		for p, piece := range pieces {
			gm := remap.New(s.log)
			gm.SetTable(table)
			gm.SetStdOutputSize(geom.Rect{X: 0, Y: 0, Width: slices[i].slice.Width, Height: s.cfg.OutputHeight})
			gm.SetStdArea(piece.stdArea)
			gm.SetOutputSize(geom.Rect{X: 0, Y: 0, Width: s.cfg.OutputWidth, Height: s.cfg.OutputHeight})
			gm.SetExtendedOffset(piece.extendedOffset)
			mappers[p] = gm
		}

		cameras[i] = cameraUnit{
			info:        s.cfg.Cameras[i],
			slice:       slices[i],
			table:       table,
			mappers:     mappers,
			leftFactor:  geom.F32Pair{X: 1, Y: 1},
			rightFactor: geom.F32Pair{X: 1, Y: 1},
		}
	}

	for i := range cameras {
		plans := updateCopyAreas(i, piecesByCam[i], overlapsRaw, s.cfg.OutputHeight)
		mw := 0
		if i < len(s.cfg.MergeWidths) {
			mw = s.cfg.MergeWidths[i]
		}
		areas := make([]copytask.Area, len(plans))
		for a, p := range plans {
			in, out := p.area.InArea, p.area.OutArea
			if p.leftOverlapW > 0 {
				in = copytask.WidenForMergeWidth(in, p.leftOverlapW, mw, true)
				out = copytask.WidenForMergeWidth(out, p.leftOverlapW, mw, true)
			}
			if p.rightOverlapW > 0 {
				in = copytask.WidenForMergeWidth(in, p.rightOverlapW, mw, false)
				out = copytask.WidenForMergeWidth(out, p.rightOverlapW, mw, false)
			}
			areas[a] = copytask.Area{InIdx: p.area.InIdx, InArea: in, OutArea: out}
		}
		cameras[i].copyAreas = areas
	}

	overlaps := make([]overlapUnit, len(overlapsRaw))
	for idx, ov := range overlapsRaw {
		u := overlapUnit{
			camI: ov.camI, camJ: ov.camJ, rect: ov.rect,
			blender: blend.New(s.cfg.BlendPyrLevels), pairIndex: idx,
		}
		if s.cfg.FMMode != config.FMNone {
			u.matcher = featurematch.New(s.cfg.FeatureMatch, s.log)
			u.centers = featurematch.Centers{
				CenterLeft:    float64(slices[ov.camI].centerX),
				CenterRight:   float64(slices[ov.camJ].centerX),
				OverlapCenter: float64(ov.rect.X) + float64(ov.rect.Width)/2,
			}
			u.fmLeft, u.fmRight = fmCropRects(ov.rect, s.cfg)
		}
		overlaps[idx] = u
	}

	tilePool := bufpool.New(2*s.cfg.CameraNum, geom.NV12, s.cfg.OutputWidth, s.cfg.OutputHeight)

	s.mu.Lock()
	s.cameras = cameras
	s.overlaps = overlaps
	s.tilePool = tilePool
	s.configured = true
	s.mu.Unlock()
	return nil
}

// fmCropRects derives the feature-matcher's left/right crop rectangles
// from an overlap rectangle: a vertically centered strip in sphere mode,
// or the wall portion (the bowl's upper fraction) in bowl mode.
func fmCropRects(overlap geom.Rect, cfg config.Config) (left, right geom.Rect) {
	y, h := overlap.Y, overlap.Height
	if cfg.DewarpMode == config.Bowl {
		frac := cfg.BowlConfig.WallHeight / (cfg.BowlConfig.WallHeight + cfg.BowlConfig.GroundLength)
		if frac <= 0 || frac > 1 {
			frac = 1
		}
		h = int(float64(overlap.Height) * frac)
	} else {
		y = overlap.Y + overlap.Height/3
		h = overlap.Height / 3
	}
	r := geom.Rect{X: overlap.X, Y: y, Width: overlap.Width, Height: h}
	return r, r
}

func (s *Stitcher) generatorFor(i int, sl sliceLayout) dewarp.Generator {
	info := s.cfg.Cameras[i]
	if s.cfg.DewarpMode == config.Bowl {
		return &dewarp.Bowl{
			Info:      info,
			Config:    s.cfg.BowlConfig,
			OutWidth:  sl.slice.Width,
			OutHeight: sl.slice.Height,
		}
	}
	// The vertical angular extent is derived from the slice's own aspect
	// ratio, so a taller output tile samples a proportionally wider band
	// of the sphere rather than a fixed angle.
	vertRange := sl.slice.HoriAngleRange * float64(sl.slice.Height) / float64(sl.slice.Width)
	return &dewarp.Sphere{
		Info:         info,
		DstLongitude: sl.slice.HoriAngleRange,
		DstLatitude:  vertRange,
	}
}

// StitchBuffers runs one frame through the full pipeline: concurrent
// per-camera remap, then concurrent blend and copy into out, then
// feature-match (if enabled), whose corrected scale factors are applied
// to the cameras' GeoMappers at the start of the *next* call (§5's
// ordering guarantee that the pipeline never stalls waiting on its own
// feedback loop).
func (s *Stitcher) StitchBuffers(ctx context.Context, in []*geom.Frame, out *geom.Frame) error {
	s.mu.Lock()
	configured := s.configured
	s.mu.Unlock()
	if !configured {
		if err := s.configure(); err != nil {
			return err
		}
	}

	if len(in) != len(s.cameras) {
		return xerror.New(xerror.Param, "stitcher", errStr("input frame count must equal camera_num"))
	}

	s.applyPendingFactors()

	tiles := make([]*geom.Frame, len(s.cameras))
	for i := range tiles {
		t, err := s.tilePool.Acquire(ctx)
		if err != nil {
			return xerror.New(xerror.Timeout, "stitcher", err)
		}
		tiles[i] = t
	}
	defer func() {
		for _, t := range tiles {
			s.tilePool.Release(t)
		}
	}()

	if err := s.remapAll(in, tiles); err != nil {
		return err
	}
	if err := s.blendAndCopyAll(tiles, out); err != nil {
		return err
	}
	s.runFeatureMatch(tiles)

	return nil
}

func (s *Stitcher) applyPendingFactors() {
	if len(s.pendingFM) == 0 {
		return
	}
	touched := make(map[int]bool)
	for idx, res := range s.pendingFM {
		if !res.Updated {
			continue
		}
		ov := s.overlaps[idx]
		s.cameras[ov.camI].rightFactor = res.RightFactor
		s.cameras[ov.camJ].leftFactor = res.LeftFactor
		touched[ov.camI] = true
		touched[ov.camJ] = true
	}
	for i := range touched {
		s.cameras[i].applyFactors()
	}
}

func (s *Stitcher) remapAll(in, tiles []*geom.Frame) error {
	var wg sync.WaitGroup
	errs := make([]error, len(s.cameras))
	for i := range s.cameras {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, m := range s.cameras[i].mappers {
				if err := m.Remap(in[i], tiles[i]); err != nil {
					errs[i] = err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return xerror.New(xerror.Protocol, "stitcher", err)
		}
	}
	return nil
}

func (s *Stitcher) blendAndCopyAll(tiles []*geom.Frame, out *geom.Frame) error {
	var wg sync.WaitGroup
	errs := make([]error, len(s.overlaps)+countCopyAreas(s.cameras))

	n := 0
	for idx := range s.overlaps {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ov := s.overlaps[idx]
			errs[idx] = ov.blender.Blend(tiles[ov.camI], tiles[ov.camJ], out, ov.rect, ov.rect, ov.rect)
		}(idx)
	}
	n = len(s.overlaps)

	for i := range s.cameras {
		for _, area := range s.cameras[i].copyAreas {
			wg.Add(1)
			go func(slot int, tile *geom.Frame, area copytask.Area) {
				defer wg.Done()
				errs[slot] = copytask.Copy(tile, out, area.InArea, area.OutArea)
			}(n, tiles[i], area)
			n++
		}
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return xerror.New(xerror.Protocol, "stitcher", err)
		}
	}
	return nil
}

func countCopyAreas(cameras []cameraUnit) int {
	n := 0
	for _, c := range cameras {
		n += len(c.copyAreas)
	}
	return n
}

// runFeatureMatch runs every enabled overlap pair's matcher against this
// frame's tiles, queuing the result for application to the next frame and
// recording it if a diagnostics recorder is attached.
func (s *Stitcher) runFeatureMatch(tiles []*geom.Frame) {
	if s.recorder != nil {
		s.recorder.AdvanceFrame()
	}
	for idx, ov := range s.overlaps {
		if ov.matcher == nil {
			continue
		}
		res, err := ov.matcher.Match(ov.pairIndex, tiles[ov.camI], tiles[ov.camJ], ov.fmLeft, ov.fmRight, ov.centers)
		if err != nil {
			if s.log != nil {
				s.log.Warning("stitcher: feature match failed", "pair", idx, "error", err.Error())
			}
			continue
		}
		s.pendingFM[idx] = res
		if s.recorder != nil {
			s.recorder.Record(idx, res)
		}
	}
}

type errStr string

func (e errStr) Error() string { return string(e) }
