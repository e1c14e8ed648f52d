/*
DESCRIPTION
  intrinsic.go parses the whitespace-tokenized intrinsic calibration file
  format: poly_length and poly coefficients, then "cy cx", then "c d e".
  Comment lines begin with '#' and are skipped.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package calib parses the on-disk calibration formats consumed by the
// dewarp table generators: the whitespace-tokenized intrinsic/extrinsic
// text formats, the combined K/R/T calibration file, and the optional
// JSON calibration document (§6).
package calib

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/stitch360/cam"
)

// tokenScanner yields whitespace-separated tokens across lines, skipping
// blank lines and lines beginning with '#', mirroring the C strtok_r-based
// scan in the original calibration parser.
type tokenScanner struct {
	sc     *bufio.Scanner
	toks   []string
	line   int
}

func newTokenScanner(r io.Reader) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &tokenScanner{sc: sc}
}

// next returns the next non-comment token, or an error if the input is
// exhausted.
func (s *tokenScanner) next() (string, error) {
	for len(s.toks) == 0 {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return "", errors.Wrapf(err, "calib: reading line %d", s.line)
			}
			return "", io.EOF
		}
		s.line++
		line := strings.TrimSpace(s.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.toks = strings.Fields(line)
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok, nil
}

func (s *tokenScanner) nextFloat() (float64, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "calib: parsing float token %q at line %d", tok, s.line)
	}
	return v, nil
}

func (s *tokenScanner) nextInt() (int, error) {
	tok, err := s.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "calib: parsing int token %q at line %d", tok, s.line)
	}
	return v, nil
}

// ParseIntrinsic reads the intrinsic calibration file format: poly_length
// followed by poly_length float coefficients, then "cy cx", then "c d e".
// Any further tokens are ignored.
func ParseIntrinsic(r io.Reader) (cam.Intrinsic, error) {
	s := newTokenScanner(r)
	var intr cam.Intrinsic

	n, err := s.nextInt()
	if err != nil {
		return intr, err
	}
	if n < 0 || n > cam.MaxPolyCoeff {
		return intr, errors.Errorf("calib: poly_length %d exceeds max %d", n, cam.MaxPolyCoeff)
	}
	intr.PolyLength = n
	for i := 0; i < n; i++ {
		v, err := s.nextFloat()
		if err != nil {
			return intr, err
		}
		intr.PolyCoeff[i] = v
	}

	if intr.Cy, err = s.nextFloat(); err != nil {
		return intr, err
	}
	if intr.Cx, err = s.nextFloat(); err != nil {
		return intr, err
	}

	if intr.C, err = s.nextFloat(); err != nil {
		return intr, err
	}
	if intr.D, err = s.nextFloat(); err != nil {
		return intr, err
	}
	if intr.E, err = s.nextFloat(); err != nil {
		return intr, err
	}

	return intr, nil
}
