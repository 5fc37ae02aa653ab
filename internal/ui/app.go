package ui

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/cdl"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/content"
	bitlayout "github.com/OpenTraceLab/OpenTraceXTCE/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceXTCE/pkg/render"
)

// Options configure the viewer.
type Options struct {
	Aliases     content.AliasPreferences
	Orientation bitlayout.Orientation
	Layout      bitlayout.Options
	FontSize    float64
	Palette     render.Palette
	SaveDir     string // Directory exported images are written to
	Initial     string // Container shown first, the first name when empty
}

// App is the diagram viewer window.
type App struct {
	window  *app.Window
	theme   *material.Theme
	gvTheme *theme.Theme
	ops     op.Ops

	state   *AppState
	catalog *cdl.Catalog
	opts    Options
	logger  *log.Entry

	drawings map[string]*bitlayout.Drawing
	view     *bitlayout.View

	containerMenu *menu.DropdownMenu
	menuBtn       widget.Clickable
	orientBtn     widget.Clickable
	saveBtn       widget.Clickable

	iconLTR  *widget.Icon
	iconTTB  *widget.Icon
	iconSave *widget.Icon

	camera *Camera
	vList  widget.List
	hList  widget.List
}

// New wires a viewer to the window. The catalog must not be modified while
// the viewer runs.
func New(window *app.Window, catalog *cdl.Catalog, opts Options) *App {
	if opts.FontSize <= 0 {
		opts.FontSize = render.DefaultFontSize
	}
	if len(opts.Palette.Groups) == 0 {
		opts.Palette = render.DefaultPalette()
	}
	if opts.Layout.Measurer == nil {
		opts.Layout.Measurer = bitlayout.NewFaceMeasurer(render.MustFace(opts.FontSize))
	}

	a := &App{
		window:   window,
		theme:    material.NewTheme(),
		gvTheme:  theme.NewTheme("", nil, true),
		state:    NewState(),
		catalog:  catalog,
		opts:     opts,
		logger:   log.WithField("component", "ui"),
		drawings: make(map[string]*bitlayout.Drawing),
		camera:   NewCamera(),
	}
	a.vList.Axis = layout.Vertical
	a.hList.Axis = layout.Horizontal
	a.state.SetOrientation(opts.Orientation)

	a.iconLTR = makeIcon(icons.ActionSwapHoriz, "left-to-right")
	a.iconTTB = makeIcon(icons.ActionSwapVert, "top-to-bottom")
	a.iconSave = makeIcon(icons.ContentSave, "save")
	a.containerMenu = a.buildContainerMenu()

	initial := opts.Initial
	if initial == "" && catalog.Len() > 0 {
		initial = catalog.Names()[0]
	}
	if initial != "" {
		a.selectContainer(initial)
	}
	return a
}

// State exposes the viewer state.
func (a *App) State() *AppState {
	return a.state
}

// Run processes Gio events until the window is closed.
func (a *App) Run() error {
	a.window.Option(app.Title(a.title()), app.Size(unit.Dp(1200), unit.Dp(800)))
	for {
		e := a.window.Event()
		switch ev := e.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&a.ops, ev)
			a.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func makeIcon(data []byte, name string) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		log.WithError(err).Warnf("ui: failed to load %s icon", name)
		return nil
	}
	return icon
}

func (a *App) title() string {
	if a.view == nil {
		return "XTCE View"
	}
	return "XTCE View - " + a.view.Drawing().Name()
}

func (a *App) buildContainerMenu() *menu.DropdownMenu {
	names := a.catalog.Names()
	opts := make([]menu.MenuOption, 0, len(names))
	for _, name := range names {
		label := name
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				a.selectContainer(label)
				a.window.Invalidate()
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				lbl := material.Body1(th.Theme, label)
				if a.view != nil && a.view.Drawing().Name() == label {
					lbl.Color = th.Palette.ContrastBg
				}
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, lbl.Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(320)
	return drop
}

// selectContainer switches the view to the named container. Drawings are
// built once per container and kept for the lifetime of the window.
func (a *App) selectContainer(name string) {
	d, ok := a.drawings[name]
	if !ok {
		model, err := a.catalog.Resolve(name)
		if err != nil {
			a.state.SetError(err)
			a.state.AppendLog(fmt.Sprintf("Cannot resolve %s: %v", name, err))
			a.logger.WithError(err).WithField("container", name).Warn("Resolve failed")
			return
		}
		d = bitlayout.NewDrawing(model, a.opts.Aliases)
		a.drawings[name] = d
	}
	a.view = d.NewView(a.state.Orientation(), a.opts.Layout)
	a.state.SetSelected(name)
	a.state.SetError(nil)
	a.state.SetStatus(fmt.Sprintf("%s: %d entries", name, d.Len()))
}

func (a *App) toggleOrientation() {
	if a.view == nil {
		return
	}
	a.view.Toggle()
	a.state.SetOrientation(a.view.Orientation())
	a.logger.WithField("orientation", a.view.Orientation()).Debug("Orientation changed")
}

// save exports the current diagram as PNG without blocking the frame. The
// export works on its own view so the window's cache stays untouched.
func (a *App) save() {
	if a.view == nil {
		return
	}
	view := a.view.Share()
	path := filepath.Join(a.opts.SaveDir, view.Drawing().Name()+".png")
	a.state.SetStatus("Saving " + path)
	go func() {
		if err := exportDiagram(view, path, a.opts.FontSize); err != nil {
			a.state.SetError(err)
			a.state.AppendLog(err.Error())
			a.logger.WithError(err).Error("Export failed")
		} else {
			a.state.SetStatus("Saved " + path)
			a.state.AppendLog("Saved " + path)
			a.logger.WithField("path", path).Info("Diagram exported")
		}
		a.window.Invalidate()
	}()
}

// exportDiagram saves view with a face of its own at fontSize. The view is
// re-measured with that face so the text matches the layout.
func exportDiagram(view *bitlayout.View, path string, fontSize float64) error {
	face, err := render.NewFace(fontSize)
	if err != nil {
		return err
	}
	defer face.Close()
	opts := view.Options()
	opts.Measurer = bitlayout.NewFaceMeasurer(face)
	view.SetOptions(opts)
	return render.SaveFace(view, path, face)
}

func (a *App) handleKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "O"},
			key.Filter{Name: "S", Required: key.ModShortcut},
			key.Filter{Name: key.NameEscape},
			key.Filter{Name: "+", Optional: key.ModShift},
			key.Filter{Name: "-"},
			key.Filter{Name: key.NameSpace},
			key.Filter{Name: "0"},
		)
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		switch ke.Name {
		case "O":
			a.toggleOrientation()
			gtx.Execute(op.InvalidateCmd{})
		case "S":
			a.save()
		case key.NameEscape:
			a.window.Perform(system.ActionClose)
		case "+":
			a.camera.ZoomBy(1.2)
			gtx.Execute(op.InvalidateCmd{})
		case "-":
			a.camera.ZoomBy(0.8)
			gtx.Execute(op.InvalidateCmd{})
		case key.NameSpace:
			if a.view != nil {
				a.camera.Fit(a.view.PreferredSize())
			}
			gtx.Execute(op.InvalidateCmd{})
		case "0":
			a.camera.Reset()
			gtx.Execute(op.InvalidateCmd{})
		}
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	a.handleKeys(gtx)
	if a.orientBtn.Clicked(gtx) {
		a.toggleOrientation()
	}
	if a.saveBtn.Clicked(gtx) {
		a.save()
	}

	paint.FillShape(gtx.Ops, color.NRGBA{R: 238, G: 241, B: 251, A: 255}, clip.Rect{Max: gtx.Constraints.Max}.Op())
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(a.layoutToolbar),
		layout.Flexed(1, a.layoutDiagram),
		layout.Rigid(a.layoutStatus),
	)
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(a.layoutContainerDropdown),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				icon, desc := a.iconTTB, "Switch to top-to-bottom"
				if a.state.Orientation() == bitlayout.TopToBottom {
					icon, desc = a.iconLTR, "Switch to left-to-right"
				}
				if icon == nil {
					return material.Button(a.theme, &a.orientBtn, "Orientation").Layout(gtx)
				}
				return material.IconButton(a.theme, &a.orientBtn, icon, desc).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if a.iconSave == nil {
					return material.Button(a.theme, &a.saveBtn, "Save").Layout(gtx)
				}
				return material.IconButton(a.theme, &a.saveBtn, a.iconSave, "Save PNG").Layout(gtx)
			}),
		)
	})
}

func (a *App) layoutContainerDropdown(gtx layout.Context) layout.Dimensions {
	current := "No container"
	if a.view != nil {
		current = a.view.Drawing().Name()
	}
	if a.menuBtn.Clicked(gtx) {
		a.containerMenu.ToggleVisibility(gtx)
	}
	dims := material.Button(a.theme, &a.menuBtn, current).Layout(gtx)

	// Layout menu after button so it appears on top
	if a.containerMenu != nil {
		a.containerMenu.Layout(gtx, a.gvTheme)
	}
	return dims
}

func (a *App) layoutDiagram(gtx layout.Context) layout.Dimensions {
	if a.view == nil {
		return layout.Center.Layout(gtx, material.Body1(a.theme, "Nothing to draw").Layout)
	}
	a.camera.UpdateScreenSize(
		int(float32(gtx.Constraints.Max.X)/gtx.Metric.PxPerDp),
		int(float32(gtx.Constraints.Max.Y)/gtx.Metric.PxPerDp))
	res := a.view.Layout()
	style := DiagramStyle{
		Palette:  a.opts.Palette,
		TextSize: unit.Sp(a.opts.FontSize),
		Zoom:     a.camera.Zoom,
	}
	return material.List(a.theme, &a.vList).Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
		return material.List(a.theme, &a.hList).Layout(gtx, 1, func(gtx layout.Context, _ int) layout.Dimensions {
			return DrawResult(gtx, a.theme, res, style)
		})
	})
}

func (a *App) layoutStatus(gtx layout.Context) layout.Dimensions {
	snap := a.state.Snapshot()
	lbl := material.Caption(a.theme, statusLine(snap, a.camera.Zoom))
	if snap.LastError != nil {
		lbl.Color = a.opts.Palette.Warning
	}
	return layout.Inset{Left: unit.Dp(8), Bottom: unit.Dp(4), Top: unit.Dp(4)}.Layout(gtx, lbl.Layout)
}

// statusLine is the status bar text: the status, orientation, zoom and the
// newest log line when it differs from the status.
func statusLine(snap StateSnapshot, zoom float32) string {
	line := fmt.Sprintf("%s  [%s, %d%%]", snap.Status, snap.Orientation, int(math.Round(float64(zoom)*100)))
	if n := len(snap.Logs); n > 0 && !strings.HasSuffix(snap.Logs[n-1], " "+snap.Status) {
		line += "  | " + snap.Logs[n-1]
	}
	return line
}
