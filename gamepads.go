package gamepads

// Gamepad holds information of a gamepad. ButtonMap and AxesMap translate a
// button or axis index into its Linux input code (BTN_* / ABS_*).
type Gamepad struct {
	ID        string
	Model     string
	Buttons   int
	ButtonMap []int
	Axes      int
	AxesMap   []int
}
