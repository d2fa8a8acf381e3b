// Command gorpho applies 3D morphology to raw volume files from the shell.
//
// Subcommands:
//
//	gorpho devices                      probe compute adapters, print JSON
//	gorpho ball -radius N [-approx A]   print a ball line decomposition
//	gorpho run -in vol.raw -dims X,Y,Z -type uint8 -op dilate ...
//
// Volumes are flat x-fastest binary files; a .zst suffix selects zstd
// framing on either side.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openmorph/gorpho"
	"github.com/openmorph/gorpho/config"
	"github.com/openmorph/gorpho/detector"
	"github.com/openmorph/gorpho/morph"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "devices":
		err = cmdDevices(os.Args[2:])
	case "ball":
		err = cmdBall(os.Args[2:])
	case "run":
		err = cmdRun(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "gorpho: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gorpho:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  gorpho devices
  gorpho ball -radius N [-approx inside|best|outside]
  gorpho run -in FILE -out FILE -dims X,Y,Z -type T -op OP
             [-ball N] [-approx A] [-strel FILE -strel-dims X,Y,Z]
             [-config FILE] [-backend gpu|cpu]`)
}

func cmdDevices(args []string) error {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	n := gorpho.DeviceCount()
	fmt.Printf("devices: %d\n", n)
	for i := 0; i < n; i++ {
		name, err := gorpho.DeviceName(i)
		if err != nil {
			return err
		}
		fmt.Printf("  [%d] %s\n", i, name)
	}
	if n == 0 {
		return nil
	}
	js, err := detector.DetectJSON()
	if err != nil {
		return err
	}
	fmt.Println(js)
	return nil
}

func cmdBall(args []string) error {
	fs := flag.NewFlagSet("ball", flag.ExitOnError)
	radius := fs.Int("radius", 0, "ball radius in voxels")
	approx := fs.String("approx", "best", "approximation bias: inside, best, outside")
	if err := fs.Parse(args); err != nil {
		return err
	}
	at, err := parseApprox(*approx)
	if err != nil {
		return err
	}
	lines, err := gorpho.FlatBallApprox(*radius, at)
	if err != nil {
		return err
	}
	fmt.Printf("radius %d, %s: %d lines\n", *radius, *approx, len(lines))
	for _, ln := range lines {
		fmt.Printf("  step (%2d,%2d,%2d) length %d\n", ln.Step[0], ln.Step[1], ln.Step[2], ln.Length)
	}
	return nil
}

func parseApprox(s string) (morph.ApproxType, error) {
	switch s {
	case "inside":
		return morph.Inside, nil
	case "best":
		return morph.Best, nil
	case "outside":
		return morph.Outside, nil
	}
	return 0, fmt.Errorf("unknown approximation %q", s)
}

func parseOp(s string) (morph.Op, error) {
	switch s {
	case "dilate":
		return morph.Dilate, nil
	case "erode":
		return morph.Erode, nil
	case "open":
		return morph.Open, nil
	case "close":
		return morph.Close, nil
	case "tophat":
		return morph.Tophat, nil
	case "bothat":
		return morph.Bothat, nil
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

func parseBackend(cfg *config.Config, override string) error {
	b := cfg.Engine.Backend
	if override != "" {
		b = override
	}
	switch b {
	case "gpu":
		gorpho.SetBackend(gorpho.BackendGPU)
	case "cpu":
		gorpho.SetBackend(gorpho.BackendCPU)
	default:
		return fmt.Errorf("unknown backend %q", b)
	}
	return nil
}
