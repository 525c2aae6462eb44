// Package main provides the entry point for the Sketchboard application.
package main

import (
	"os"

	"sketchboard/internal/app"
	"sketchboard/internal/config"
	"sketchboard/internal/version"
	"sketchboard/ui/mainwindow"
	"sketchboard/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	appID    = "io.sketchboard.desktop"
	appTitle = "Sketchboard"
)

func main() {
	// A missing .env is normal; the environment and prefs still apply.
	_ = godotenv.Load()
	setupLogging()

	logrus.WithFields(version.Fields()).Infof("Starting %s", appTitle)

	appPrefs := prefs.Load()

	// Environment overrides stored preferences.
	opts := append(appPrefs.BoardOptions(), config.FromEnv()...)
	if len(os.Args) > 1 {
		opts = append(opts, config.WithBackgroundURL(os.Args[1]))
	}
	cfg := config.New(opts...)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(app.NewTheme(cfg.PenColor))

	state := app.NewState()
	defer state.Close()

	win, err := mainwindow.New(fyneApp, state, appPrefs, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create main window")
	}
	win.SetTitle(appTitle)
	win.SetMaster()
	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		logrus.WithError(err).Warn("Failed to save preferences")
	}
}

// setupLogging applies SKETCHBOARD_LOG_LEVEL and SKETCHBOARD_LOG_FORMAT.
func setupLogging() {
	if lvl, err := logrus.ParseLevel(os.Getenv("SKETCHBOARD_LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}
	if os.Getenv("SKETCHBOARD_LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
