package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	HeaderBg    tcell.Color
	HeaderFg    tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	FolderFg    tcell.Color
	FileFg      tcell.Color
	MatchFg     tcell.Color
	NoticeFg    tcell.Color
	ErrorFg     tcell.Color
	HealthyFg   tcell.Color
	UnhealthyFg tcell.Color
	StatusBg    tcell.Color
	StatusFg    tcell.Color
	PreviewFg   tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		HeaderBg:    tcell.ColorDefault,
		HeaderFg:    tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		FolderFg:    tcell.Color33,
		FileFg:      tcell.ColorDefault,
		MatchFg:     tcell.Color51,
		NoticeFg:    tcell.ColorLightSlateGray,
		ErrorFg:     tcell.Color196,
		HealthyFg:   tcell.Color40,
		UnhealthyFg: tcell.Color196,
		StatusBg:    tcell.ColorDefault,
		StatusFg:    tcell.ColorDefault,
		PreviewFg:   tcell.ColorDefault,
	}
}
