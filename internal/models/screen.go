package models

// ScreenState is one full-viewport step of the scan flow.
type ScreenState string

const (
	ScreenHome       ScreenState = "HOME"
	ScreenCapture    ScreenState = "CAPTURE"
	ScreenProcessing ScreenState = "PROCESSING"
	ScreenResults    ScreenState = "RESULTS"
)

// Valid reports whether s is one of the four known screens.
func (s ScreenState) Valid() bool {
	switch s {
	case ScreenHome, ScreenCapture, ScreenProcessing, ScreenResults:
		return true
	}
	return false
}
