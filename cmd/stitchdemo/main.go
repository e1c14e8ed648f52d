/*
DESCRIPTION
  stitchdemo is a minimal command that exercises the stitch360 library
  end to end: it reads one raw NV12 file per camera, stitches a single
  panorama frame, and writes the result as raw NV12. It exists only for
  manual/smoke-test runs; it is not a supported CLI contract.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stitchdemo is a minimal demonstration CLI for the stitch360
// library: it stitches one frame from a set of raw NV12 files and writes
// the panorama back out.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stitch360/cam"
	"github.com/ausocean/stitch360/config"
	"github.com/ausocean/stitch360/config/presets"
	"github.com/ausocean/stitch360/geom"
	"github.com/ausocean/stitch360/stitcher"
)

// Logging configuration, mirroring the rest of this codebase's demo/device
// commands.
const (
	logPath      = "/var/log/stitchdemo/stitchdemo.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	inPtr := flag.String("in", "", "Comma-separated list of raw NV12 input files, one per camera.")
	outPtr := flag.String("out", "panorama.nv12", "Output raw NV12 file path.")
	camSizePtr := flag.Int("cam_size", 1920, "Input camera frame width and height (square fisheye frame).")
	outWPtr := flag.Int("out_width", 3840, "Output panorama width.")
	outHPtr := flag.Int("out_height", 1920, "Output panorama height.")
	modePtr := flag.String("mode", "1080p2cams", "Resolution-mode preset: 1080p2cams, 1080p4cams, 4k2cams, 8k3cams, 8k6cams.")
	bowlPtr := flag.Bool("bowl", false, "Use bowl (surround-view) dewarp instead of sphere (round-view).")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if err := run(l, *inPtr, *outPtr, *camSizePtr, *outWPtr, *outHPtr, *modePtr, *bowlPtr); err != nil {
		l.Fatal("stitchdemo failed", "error", err)
	}
}

func run(l logging.Logger, inList, outPath string, camSize, outW, outH int, modeName string, bowl bool) error {
	mode, err := parseMode(modeName)
	if err != nil {
		return err
	}
	preset := presets.For(mode)

	paths := strings.Split(inList, ",")
	if len(paths) != preset.CameraNum {
		return fmt.Errorf("stitchdemo: -in lists %d files, mode %s needs %d", len(paths), modeName, preset.CameraNum)
	}

	in := make([]*geom.Frame, preset.CameraNum)
	infos := make([]cam.Info, preset.CameraNum)
	for i, p := range paths {
		f, err := readNV12(p, camSize, camSize)
		if err != nil {
			return fmt.Errorf("stitchdemo: camera %d: %w", i, err)
		}
		in[i] = f
		infos[i] = defaultCamInfo(camSize)
	}

	s := stitcher.New(l)
	s.SetResolutionMode(mode)
	s.SetOutputSize(outW, outH)
	s.SetStitchInfo(infos, preset.MergeWidths)
	if bowl {
		s.SetDewarpMode(config.Bowl)
	}

	out := &geom.Frame{
		Format:   geom.NV12,
		Width:    outW,
		Height:   outH,
		YStride:  outW,
		Y:        make([]uint8, outW*outH),
		UVStride: outW,
		UV:       make([]uint8, outW*((outH+1)/2)),
	}

	l.Info("stitching frame", "cameras", preset.CameraNum, "mode", modeName)
	if err := s.StitchBuffers(context.Background(), in, out); err != nil {
		return fmt.Errorf("stitchdemo: stitch failed: %w", err)
	}

	return writeNV12(outPath, out)
}

func parseMode(name string) (presets.Mode, error) {
	switch name {
	case "1080p2cams":
		return presets.Mode1080p2Cams, nil
	case "1080p4cams":
		return presets.Mode1080p4Cams, nil
	case "4k2cams":
		return presets.Mode4k2Cams, nil
	case "8k3cams":
		return presets.Mode8k3Cams, nil
	case "8k6cams":
		return presets.Mode8k6Cams, nil
	default:
		return 0, fmt.Errorf("stitchdemo: unknown -mode %q", name)
	}
}

// defaultCamInfo is a generic fisheye intrinsic (202.8-degree equidistant
// lens centered in the frame), adequate for exercising the pipeline
// without a real calibration file.
func defaultCamInfo(size int) cam.Info {
	return cam.Info{
		Intrinsic: cam.Intrinsic{
			Cx: float64(size) / 2, Cy: float64(size) / 2,
			Fov: 202.8, Width: size, Height: size,
		},
		Radius: float64(size) / 2,
	}
}

func readNV12(path string, w, h int) (*geom.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ch := (h + 1) / 2
	want := w*h + w*ch
	if len(data) != want {
		return nil, fmt.Errorf("expected %d bytes for %dx%d NV12, got %d", want, w, h, len(data))
	}
	return &geom.Frame{
		Format:   geom.NV12,
		Width:    w,
		Height:   h,
		YStride:  w,
		Y:        data[:w*h],
		UVStride: w,
		UV:       data[w*h:],
	}, nil
}

func writeNV12(path string, f *geom.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(f.Y); err != nil {
		return err
	}
	if _, err := out.Write(f.UV); err != nil {
		return err
	}
	return nil
}
