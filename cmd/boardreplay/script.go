package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sketchboard/internal/config"
)

// Script is a recorded drawing session.
type Script struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Mode             string  `json:"mode"`
	MaxRevokeSteps   any     `json:"maxRevokeSteps"`
	PenColor         string  `json:"penColor"`
	PenWidth         float64 `json:"penWidth"`
	Background       string  `json:"background"`
	BackgroundRotate int     `json:"backgroundRotate"`
	Steps            []Step  `json:"steps"`
}

// Step is one operation of a script.
type Step struct {
	Op        string       `json:"op"`
	Points    [][2]float64 `json:"points,omitempty"`
	Direction int          `json:"direction,omitempty"`
	Color     string       `json:"color,omitempty"`
	Width     float64      `json:"width,omitempty"`
	Height    float64      `json:"height,omitempty"`
	Src       string       `json:"src,omitempty"`
}

// Step operations.
const (
	OpStroke      = "stroke"
	OpTouchStroke = "touchstroke"
	OpRevoke      = "revoke"
	OpClear       = "clear"
	OpRotate      = "rotate"
	OpPen         = "pen"
	OpSize        = "size"
	OpBackground  = "background"
)

// LoadScript reads a script from path, or from stdin when path is "-".
func LoadScript(path string) (*Script, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return ParseScript(r)
}

// ParseScript decodes a script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// Options returns the board configuration the script asks for. The
// background is not part of it; Replay loads it first and waits for it.
func (s *Script) Options() []config.Option {
	var opts []config.Option
	if s.Width > 0 && s.Height > 0 {
		opts = append(opts, config.WithSize(s.Width, s.Height))
	}
	if s.Mode != "" {
		opts = append(opts, config.WithMode(config.ParseMode(s.Mode)))
	}
	if s.BackgroundRotate != 0 {
		opts = append(opts, config.WithBackgroundRotate(s.BackgroundRotate))
	}
	if s.MaxRevokeSteps != nil {
		opts = append(opts, config.WithMaxRevokeSteps(config.RevokeSteps(s.MaxRevokeSteps)))
	}
	if s.PenColor != "" {
		opts = append(opts, config.WithPenColor(s.PenColor))
	}
	if s.PenWidth > 0 {
		opts = append(opts, config.WithPenWidth(s.PenWidth))
	}
	return opts
}
