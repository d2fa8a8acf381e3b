package gorpho

// Test hooks: swap the device probe and engine selection without touching
// real hardware.

func setProbe(p DeviceProbe) (restore func()) {
	old := probe
	probe = p
	return func() { probe = old }
}

func setActive(b Backend) (restore func()) {
	old := active
	active = b
	return func() { active = old }
}
