package gamepads

// notify is the OS specific device watcher behind a bus. It owns the open
// devices; the bus only routes their events.
type notify interface {
	// stop unsubscribes every device and ends the watch.
	stop() (err error)
	// gamepads lists the devices currently plugged in.
	gamepads() (devices []Gamepad)
	subscribe(id string) (err error)
	unsubscribe(id string) (err error)
}
