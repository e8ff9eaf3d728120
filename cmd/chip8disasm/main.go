// Package main implements a CHIP-8 ROM disassembler
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/fileprocessor"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type optionFlags struct {
	input  string
	output string
	write  bool
	quiet  bool
}

func main() {
	options := readArguments()
	logger := config.CreateLogger(false, options.quiet)
	fileprocessor.PrintBanner(logger, "chip8disasm", options.quiet || options.output == "", version, commit, date)

	if err := disasmFile(options); err != nil {
		logger.Error("Disassembling failed", log.Err(err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&options.write, "w", false, "write the output next to the input file using the .asm extension")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()

	if err != nil || len(args) == 0 {
		fmt.Printf("usage: chip8disasm [options] <file to disassemble>\n\n")
		flags.PrintDefaults()
		os.Exit(1)
	}
	options.input = args[0]
	if options.write && options.output == "" {
		options.output = fileprocessor.GenerateOutputFilename(options.input, ".asm")
	}

	return options
}

func disasmFile(options optionFlags) error {
	rom, err := loader.New().Load(options.input)
	if err != nil {
		return fmt.Errorf("loading rom: %w", err)
	}

	lines := disasm.New(rom, chip8.ProgramStart).Process()

	outputFile, err := fileprocessor.CreateWriter(options.output)
	if err != nil {
		return err
	}
	if err = disasm.Write(outputFile, lines); err != nil {
		_ = outputFile.Close()
		return fmt.Errorf("processing file: %w", err)
	}
	if err = outputFile.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}
