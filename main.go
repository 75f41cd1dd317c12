// Command chirp executes CHIP-8 program images on an emulated machine.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"

	"github.com/mko/chirp/chip8"
	"github.com/mko/chirp/vip"
)

func main() {
	log.SetPrefix("chirp: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "render to the terminal instead of a window")
		devFlag   = flag.Bool("dev", false, "enable developer mode (live reload on image change)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")
		ipfFlag   = flag.Int("ipf", vip.DefaultIPF, "instructions to execute per 60Hz frame")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-cli] <program.ch8>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-cli] <-dev | -debug> <program.ch8>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}

	if *devFlag || *debugFlag {
		if err := devMode(!*cliFlag, *debugFlag, *ipfFlag, flag.Arg(0)); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(flag.Arg(0), !*cliFlag, *ipfFlag)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(imageFile string, guiEnabled bool, ipf int) error {
	image, err := chip8.ReadImage(imageFile)
	if err != nil {
		return err
	}
	r := vip.NewRunner(guiEnabled, false, nil)
	if ipf > 0 {
		r.IPF = ipf
	}
	return r.Run(image)
}
