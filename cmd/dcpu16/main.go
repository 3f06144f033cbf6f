// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/dcpu16/cpu"
	"github.com/ezrec/dcpu16/emulator"
)

func main() {
	var output string
	var run bool
	var image bool
	var steps int
	var dump bool
	var verbose bool

	flag.StringVar(&output, "o", "a.out", "Object file output")
	flag.BoolVar(&run, "r", false, "Run the program after assembly")
	flag.BoolVar(&image, "x", false, "Input is a pre-assembled image; run it")
	flag.IntVar(&steps, "n", 0, "Step limit when running (0 = default)")
	flag.BoolVar(&dump, "d", false, "Dump machine state after running")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %v [options] <source.dasm>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	source := flag.Arg(0)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.StepLimit = steps

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	if image {
		err = emu.LoadBinary(inf)
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		err = emu.Run()
		if err != nil {
			log.Fatal(err)
		}
		if dump {
			fmt.Print(emu.Cpu.String())
		}
		return
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
	if _, err = ouf.Write(prog.Binary()); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
	if err = ouf.Close(); err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	if run {
		emu.Program = prog
		if err = emu.Reset(); err != nil {
			log.Fatal(err)
		}
		if err = emu.Run(); err != nil {
			log.Fatal(err)
		}
		if dump {
			fmt.Print(emu.Cpu.String())
		}
	}
}
