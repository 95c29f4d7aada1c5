// Package ui is the interactive raylib host: the canvas window, the
// descriptor-driven control panel and the status HUD.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Action is a panel button or key binding outside the parameter set.
type Action int

const (
	ActionNone Action = iota
	ActionSavePNG
	ActionExportHTML
	ActionExportSVG
	ActionRecord
	ActionSavePreset
	ActionLoadPreset
	ActionLoadImage
	ActionClearImage
)

var actionLabels = map[Action]string{
	ActionSavePNG:    "Save PNG",
	ActionExportHTML: "Export HTML",
	ActionExportSVG:  "Export SVG",
	ActionRecord:     "Record",
	ActionSavePreset: "Save preset",
	ActionLoadPreset: "Load preset",
	ActionLoadImage:  "Load image",
	ActionClearImage: "Clear image",
}

func (a Action) String() string {
	if s, ok := actionLabels[a]; ok {
		return s
	}
	return "none"
}

// panelActions is the button grid order, two per row.
var panelActions = []Action{
	ActionSavePNG, ActionRecord,
	ActionExportHTML, ActionExportSVG,
	ActionSavePreset, ActionLoadPreset,
	ActionLoadImage, ActionClearImage,
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	StatusColor    rl.Color
	ErrorColor     rl.Color
	WindowBg       rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	RowHeight      int32 // Label plus control
	ControlHeight  int32
	PickerHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		StatusColor:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		ErrorColor:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		WindowBg:       rl.Color{R: 12, G: 14, B: 18, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		RowHeight:      36,
		ControlHeight:  20,
		PickerHeight:   96,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
