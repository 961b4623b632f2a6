package ebitenhost

import (
	"image"

	"github.com/doingharm/gamepad-display/display"
)

const (
	screenWidth  = 640
	screenHeight = 400
)

// overlayRects places every overlay on a schematic pad.
var overlayRects = map[string]image.Rectangle{
	display.LT: image.Rect(80, 20, 140, 40),
	display.LB: image.Rect(80, 45, 140, 61),
	display.RT: image.Rect(500, 20, 560, 40),
	display.RB: image.Rect(500, 45, 560, 61),

	display.Back:  image.Rect(250, 110, 280, 124),
	display.Menu:  image.Rect(305, 105, 335, 129),
	display.Start: image.Rect(360, 110, 390, 124),

	display.Y: image.Rect(500, 90, 524, 114),
	display.X: image.Rect(470, 120, 494, 144),
	display.B: image.Rect(530, 120, 554, 144),
	display.A: image.Rect(500, 150, 524, 174),

	display.DPadUp:    image.Rect(200, 190, 220, 214),
	display.DPadDown:  image.Rect(200, 238, 220, 262),
	display.DPadLeft:  image.Rect(176, 214, 200, 234),
	display.DPadRight: image.Rect(220, 214, 244, 234),

	display.LeftStickUp:    image.Rect(110, 100, 130, 120),
	display.LeftStickDown:  image.Rect(110, 160, 130, 180),
	display.LeftStickLeft:  image.Rect(80, 130, 100, 150),
	display.LeftStickRight: image.Rect(140, 130, 160, 150),

	display.RightStickUp:    image.Rect(400, 180, 420, 200),
	display.RightStickDown:  image.Rect(400, 240, 420, 260),
	display.RightStickLeft:  image.Rect(370, 210, 390, 230),
	display.RightStickRight: image.Rect(430, 210, 450, 230),
}

// hintTexts are the instruction lines, drawn while their hint is active.
var hintTexts = map[string]string{
	display.LeftTriggerInstructions:  "Hold LT to vibrate with the slider values",
	display.RightTriggerInstructions: "Press RT to vibrate for the duration",
}

const helpText = "Q/A left motor  W/S right motor  0-9 . Backspace duration  Esc quit"
