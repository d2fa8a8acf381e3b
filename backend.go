package gorpho

import "os"

// Backend selects which compute engine executes morphology calls. The GPU
// engine is the default and is gated on device availability; the CPU
// reference engine must be chosen explicitly and needs no gate.
type Backend int

const (
	BackendGPU Backend = iota
	BackendCPU
)

var active = defaultBackend()

func defaultBackend() Backend {
	if os.Getenv("GORPHO_BACKEND") == "cpu" {
		return BackendCPU
	}
	return BackendGPU
}

// SetBackend selects the engine for subsequent calls.
func SetBackend(b Backend) {
	active = b
}

// ActiveBackend reports the engine in use.
func ActiveBackend() Backend {
	return active
}
