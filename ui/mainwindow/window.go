// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"sketchboard/internal/app"
	"sketchboard/internal/background"
	"sketchboard/internal/board"
	"sketchboard/internal/config"
	"sketchboard/internal/history"
	"sketchboard/internal/version"
	"sketchboard/ui/canvas"
	"sketchboard/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const (
	defaultBoardWidth  = 800
	defaultBoardHeight = 600

	jpegQuality = 0.92
	minPenWidth = 1
	maxPenWidth = 40
)

// penColors are offered in the toolbar; any CSS colour works in prefs.
var penColors = []string{"red", "black", "blue", "green", "orange", "purple", "white"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	config config.Config

	canvas    *canvas.BoardCanvas
	statusBar *widget.Label
	infoLabel *widget.Label
	colorSel  *widget.Select
	widthSl   *widget.Slider
	undoItem  *fyne.MenuItem

	strokes int
	undo    int
}

// New creates a new main window hosting a board built from cfg.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, cfg config.Config) (*MainWindow, error) {
	win := fyneApp.NewWindow("Sketchboard")

	// The canvas has no laid-out size yet, so an unset dimension would
	// fall back to the board's small default.
	cfg = cfg.With(func(c *config.Config) {
		if c.Width <= 0 {
			c.Width = defaultBoardWidth
		}
		if c.Height <= 0 {
			c.Height = defaultBoardHeight
		}
	})

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
		config: cfg,
	}

	mw.setupUI()
	mw.setupEventHandlers()
	if err := mw.createBoard(); err != nil {
		return nil, err
	}
	mw.setupMenus()
	mw.setupShortcuts()

	return mw, nil
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewBoardCanvas()
	mw.statusBar = widget.NewLabel("Ready")
	mw.infoLabel = widget.NewLabel("")

	toolbar := mw.createToolbar()

	content := container.NewBorder(
		toolbar, // top
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.infoLabel, mw.statusBar)), // bottom
		nil, // left
		nil, // right
		mw.canvas.Container(),
	)
	mw.SetContent(content)

	mw.Resize(fyne.NewSize(float32(mw.config.Width)+40, float32(mw.config.Height)+120))
}

// createToolbar creates the toolbar with board actions and pen controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), mw.onRevoke),
		widget.NewToolbarAction(theme.DeleteIcon(), mw.onClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaReplayIcon(), func() { mw.onRotate(-1) }),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { mw.onRotate(1) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), mw.onOpenBackground),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { mw.onExport("png") }),
	)

	mw.colorSel = widget.NewSelect(penColors, func(c string) {
		mw.onPenChanged(c, 0)
	})
	mw.colorSel.SetSelected(mw.config.PenColor)

	mw.widthSl = widget.NewSlider(minPenWidth, maxPenWidth)
	mw.widthSl.Step = 1
	mw.widthSl.SetValue(mw.config.PenWidth)
	mw.widthSl.OnChangeEnded = func(w float64) {
		mw.onPenChanged("", w)
	}

	return container.NewBorder(nil, nil,
		container.NewHBox(actions, widget.NewLabel("Pen:"), mw.colorSel),
		nil,
		mw.widthSl,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	// File menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Background...", mw.onOpenBackground),
		fyne.NewMenuItem("Remove Background", mw.onRemoveBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { mw.onExport("png") }),
		fyne.NewMenuItem("Export JPEG...", func() { mw.onExport("jpeg") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	// Edit menu
	mw.undoItem = fyne.NewMenuItem("Undo", mw.onRevoke)
	mw.undoItem.Disabled = true
	editMenu := fyne.NewMenu("Edit",
		mw.undoItem,
		fyne.NewMenuItem("Clear", mw.onClear),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", mw.onPreferences),
	)

	// Board menu
	boardMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("Rotate Left", func() { mw.onRotate(-1) }),
		fyne.NewMenuItem("Rotate Right", func() { mw.onRotate(1) }),
	)

	// Help menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, boardMenu, helpMenu))
}

// setupShortcuts binds Ctrl/Cmd+Z to undo.
func (mw *MainWindow) setupShortcuts() {
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	mw.Canvas().AddShortcut(undo, func(fyne.Shortcut) { mw.onRevoke() })
}

// createBoard mounts a new board built from the window config.
func (mw *MainWindow) createBoard() error {
	b, err := mw.state.NewBoard(mw.canvas, mw.config)
	if err != nil {
		return err
	}
	w, h := b.Size()
	logrus.WithFields(logrus.Fields{
		"width":  w,
		"height": h,
		"mode":   mw.config.Mode.String(),
	}).Info("Board created")
	return nil
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventBoardReady, func(interface{}) {
		mw.strokes, mw.undo = 0, 0
		mw.refreshInfo()
	})

	mw.state.On(app.EventPaintEnd, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.strokes = n
			mw.refreshInfo()
		}
	})

	mw.state.On(app.EventHistoryChanged, func(data interface{}) {
		if stack, ok := data.([]history.Entry); ok {
			mw.undo = len(stack)
			if mw.undoItem != nil {
				mw.undoItem.Disabled = len(stack) == 0
			}
			mw.refreshInfo()
		}
	})

	mw.state.On(app.EventRevoked, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.strokes = n
		}
		mw.updateStatus("Undone")
	})

	mw.state.On(app.EventCleared, func(interface{}) {
		mw.strokes = 0
		mw.updateStatus("Cleared")
	})

	mw.state.On(app.EventRotated, func(data interface{}) {
		mw.strokes = 0
		mw.updateStatus(fmt.Sprintf("Rotated to %d°", data))
	})

	mw.state.On(app.EventBackgroundLoaded, func(data interface{}) {
		res, ok := data.(app.BackgroundResult)
		if !ok || res.Source == "" {
			return
		}
		if res.Err != nil {
			mw.updateStatus("Background failed: " + res.Err.Error())
			return
		}
		mw.updateStatus("Background: " + filepath.Base(res.Source))
	})

	mw.state.On(app.EventExported, func(data interface{}) {
		mw.updateStatus(fmt.Sprintf("Exported %v", data))
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		modified, _ := data.(bool)
		title := "Sketchboard"
		if modified {
			title += " *"
		}
		mw.SetTitle(title)
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
	mw.refreshInfo()
}

func (mw *MainWindow) refreshInfo() {
	rotation := 0
	if b := mw.state.Board(); b != nil {
		rotation = b.Rotation()
	}
	mw.infoLabel.SetText(fmt.Sprintf("strokes %d · undo %d · %d°", mw.strokes, mw.undo, rotation))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDirectory, filepath.Dir(filePath))
	mw.savePrefs()
}

func (mw *MainWindow) savePrefs() {
	if err := mw.prefs.Save(); err != nil {
		logrus.WithError(err).Warn("Failed to save preferences")
	}
}

// Action handlers

func (mw *MainWindow) onRevoke() {
	if !mw.state.Revoke() {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onClear() {
	mw.state.Clear()
}

func (mw *MainWindow) onRotate(direction int) {
	if err := mw.state.Rotate(direction); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onPenChanged(color string, width float64) {
	b := mw.state.Board()
	if b == nil {
		return
	}
	b.SetPenStyle(board.PenStyle{Color: color, Width: width})
	mw.prefs.RememberPen(color, width)
	mw.savePrefs()
}

func (mw *MainWindow) onOpenBackground() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.updateStatus("Loading " + filepath.Base(path) + "...")
		mw.state.LoadBackground(path)
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(background.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onRemoveBackground() {
	mw.state.LoadBackground("")
	mw.updateStatus("Background removed; clear the board to blank it")
}

func (mw *MainWindow) onExport(format string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.saveLastDir(writer.URI().Path())
		if err := mw.state.ExportTo(writer, format, jpegQuality); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	fd.SetFileName("sketch" + ext)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onPreferences edits the settings that need a rebuilt board.
func (mw *MainWindow) onPreferences() {
	modeSel := widget.NewSelect([]string{"mouse", "touch", "both"}, nil)
	modeSel.SetSelected(mw.config.Mode.String())
	steps := widget.NewEntry()
	steps.SetText(strconv.Itoa(mw.config.MaxRevokeSteps))
	bgColor := widget.NewEntry()
	bgColor.SetText(mw.config.BackgroundColor)

	items := []*widget.FormItem{
		widget.NewFormItem("Input", modeSel),
		widget.NewFormItem("Undo steps", steps),
		widget.NewFormItem("Background colour", bgColor),
	}
	dialog.ShowForm("Preferences", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		mode := config.ParseMode(modeSel.Selected)
		n := config.RevokeSteps(strings.TrimSpace(steps.Text))
		mw.prefs.SetString(prefs.KeyMode, mode.String())
		mw.prefs.SetFloat(prefs.KeyMaxRevokeSteps, float64(n))
		mw.prefs.SetString(prefs.KeyBackgroundColor, bgColor.Text)
		mw.savePrefs()
		mw.applyPreferences(config.WithMode(mode), config.WithMaxRevokeSteps(n), config.WithBackgroundColor(bgColor.Text))
	}, mw.Window)
}

// applyPreferences rebuilds the board with opts and reloads its background.
func (mw *MainWindow) applyPreferences(opts ...config.Option) {
	b := mw.state.Board()
	if b == nil {
		return
	}
	if err := b.Reinitialize(opts...); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.config = b.Config()
	mw.strokes, mw.undo = 0, 0
	if path := mw.state.BackgroundPath(); path != "" {
		mw.state.LoadBackground(path)
	}
	mw.updateStatus("Preferences applied")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Sketchboard",
		fmt.Sprintf("Sketchboard %s\n\n"+
			"A freehand drawing board with undo and a rotatable background.",
			version.String()),
		mw.Window)
}
