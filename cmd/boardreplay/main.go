// Command boardreplay replays a JSON drawing script onto a board and writes
// the result as an image.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sketchboard/internal/board"
	"sketchboard/internal/config"
	"sketchboard/internal/version"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	scriptPath := flag.String("script", "", "Path to the JSON script, or - for stdin")
	outDir := flag.String("out", ".", "Directory to write the image into")
	name := flag.String("name", "", "Output file name (generated when empty)")
	format := flag.String("format", "png", "Output format: png, jpg, jpeg or webp")
	quality := flag.Float64("quality", 0.92, "JPEG quality in [0.3, 1]")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: boardreplay -script <file.json> [-out dir] [-format png] [-quality 0.92]")
		os.Exit(1)
	}

	_ = godotenv.Load()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithFields(version.Fields()).Debug("boardreplay starting")

	script, err := LoadScript(*scriptPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load script")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := NewReplayer(script, board.WithDownloadDir(*outDir))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create board")
	}
	defer r.Close()

	if err := r.Run(ctx, script); err != nil {
		logrus.WithError(err).Fatal("Replay failed")
	}

	path, err := r.Board().Download(*format, *quality, *name)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to write image")
	}

	w, h := r.Board().Size()
	logrus.WithFields(logrus.Fields{
		"path":       path,
		"width":      w,
		"height":     h,
		"paintCount": r.Board().PaintCount(),
		"undo":       len(r.Board().History()),
	}).Info("Replay written")
}

// configFor builds the board configuration for a script, with
// SKETCHBOARD_* variables filling in what the script leaves unset.
func configFor(s *Script) config.Config {
	opts := append(config.FromEnv(), s.Options()...)
	return config.New(opts...)
}
