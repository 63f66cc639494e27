// Package wininput defines the OS input injection layer.
package wininput

import "github.com/pion/logging"

// DryRunInjector logs every event instead of injecting it.
type DryRunInjector struct {
	log logging.LeveledLogger
}

// NewDryRunInjector returns an injector that only logs.
func NewDryRunInjector(log logging.LeveledLogger) *DryRunInjector {
	return &DryRunInjector{log: log}
}

// MoveRel logs a relative move.
func (d *DryRunInjector) MoveRel(dx, dy int) error {
	d.log.Infof("move-rel dx=%d dy=%d", dx, dy)
	return nil
}

// MoveAbs logs an absolute move on the primary display.
func (d *DryRunInjector) MoveAbs(x, y int) error {
	d.log.Infof("move-abs x=%d y=%d", x, y)
	return nil
}

// MoveVirtual logs an absolute move on the virtual desktop.
func (d *DryRunInjector) MoveVirtual(x, y int) error {
	d.log.Infof("move-virtual x=%d y=%d", x, y)
	return nil
}

// ButtonDown logs a button press.
func (d *DryRunInjector) ButtonDown(b Button) error {
	d.log.Infof("%s-down", b)
	return nil
}

// ButtonUp logs a button release.
func (d *DryRunInjector) ButtonUp(b Button) error {
	d.log.Infof("%s-up", b)
	return nil
}

// XButtonDown logs an auxiliary button press.
func (d *DryRunInjector) XButtonDown(id int) error {
	d.log.Infof("x%d-down", id)
	return nil
}

// XButtonUp logs an auxiliary button release.
func (d *DryRunInjector) XButtonUp(id int) error {
	d.log.Infof("x%d-up", id)
	return nil
}

// Wheel logs a vertical wheel delta.
func (d *DryRunInjector) Wheel(delta int) error {
	d.log.Infof("wheel delta=%d", delta)
	return nil
}

// HWheel logs a horizontal wheel delta.
func (d *DryRunInjector) HWheel(delta int) error {
	d.log.Infof("hwheel delta=%d", delta)
	return nil
}

// KeyDown logs a key press.
func (d *DryRunInjector) KeyDown(k Key) error {
	d.log.Infof("key-down %s", k)
	return nil
}

// KeyUp logs a key release.
func (d *DryRunInjector) KeyUp(k Key) error {
	d.log.Infof("key-up %s", k)
	return nil
}

// Unicode logs a Unicode code unit.
func (d *DryRunInjector) Unicode(unit uint16, up bool) error {
	if up {
		return nil
	}
	d.log.Debugf("unicode U+%04X", unit)
	return nil
}
