package gpu

import "fmt"

// Debug enables bring-up logging for the engine. Off by default: the
// boundary contract is silent.
var Debug = false

func Log(format string, args ...interface{}) {
	fmt.Printf("[gpu] "+format+"\n", args...)
}
