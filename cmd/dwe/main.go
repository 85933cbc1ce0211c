// Command dwe builds, decodes and queries compressed dynamic word embedding
// files.
//
// Usage:
//
//	dwe create -T timesteps -V vocab -K dim -s scale [-jump-interval N] -output out.dwe input
//	dwe decode -output tensor.bin input.dwe
//	dwe pairwise-trajectories -words1 w,w,... -words2 w,w,... [-trend] input.dwe
//	dwe inspect input.dwe
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robamler/linguistic-flux-capacitor/embedding"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensorio"
	"github.com/robamler/linguistic-flux-capacitor/internal/trend"
)

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create":
		err = runCreate(args)
	case "decode":
		err = runDecode(args)
	case "pairwise-trajectories":
		err = runPairwiseTrajectories(args)
	case "inspect":
		err = runInspect(args)
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "dwe: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fatal("%v", err)
	}
}

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	numT := fs.Uint("T", 0, "number of time steps")
	vocab := fs.Uint("V", 0, "vocabulary size")
	dim := fs.Uint("K", 0, "embedding dimension")
	scale := fs.Float64("s", 0, "scale factor")
	jumpInterval := fs.Uint("jump-interval", 100, "words per jump point")
	output := fs.String("output", "", "path to output file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("create: missing input tensor path")
	}
	inputPath := fs.Arg(0)
	if *numT == 0 || *vocab == 0 || *dim == 0 {
		return fmt.Errorf("create: -T, -V and -K are all required and must be positive")
	}
	if *scale == 0 {
		return fmt.Errorf("create: -s (scale factor) is required")
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".dwe"
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("create: output file %q already exists", outputPath)
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("create: cannot read %q: %w", inputPath, err)
	}

	raw, err = tensorio.Decompress(raw)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	input, err := tensorio.LoadRank3Int16(raw, int(*numT), int(*vocab), int(*dim))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	data, err := embedding.Build(input, float32(*scale), uint32(*jumpInterval))
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("create: cannot write %q: %w", outputPath, err)
	}
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	output := fs.String("output", "", "path to output file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("decode: missing input file")
	}
	inputPath := fs.Arg(0)
	outputPath := *output
	if outputPath == "" {
		return fmt.Errorf("decode: --output is required")
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("decode: output file %q already exists", outputPath)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("decode: cannot read %q: %w", inputPath, err)
	}
	reader, err := embedding.Open(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	numT, v, d := reader.NumTimesteps(), reader.VocabSize(), reader.EmbeddingDim()
	out := make([]byte, 0, numT*v*d*2)
	sink := make([]int16, d)
	for t := 0; t < numT; t++ {
		cur := embedding.NewTimestepCursor(reader, t)
		for word := 0; word < v; word++ {
			cur.ReadSingleEmbeddingVector(sink)
			for _, x := range sink {
				out = append(out, byte(uint16(x)), byte(uint16(x)>>8))
			}
		}
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("decode: cannot write %q: %w", outputPath, err)
	}
	return nil
}

func runPairwiseTrajectories(args []string) error {
	fs := flag.NewFlagSet("pairwise-trajectories", flag.ExitOnError)
	words1 := fs.String("words1", "", "comma-separated word indices")
	words2 := fs.String("words2", "", "comma-separated word indices")
	showTrend := fs.Bool("trend", false, "append an OLS slope/intercept/R^2 fit per pair")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("pairwise-trajectories: missing input file")
	}
	inputPath := fs.Arg(0)

	w1, err := parseIntList(*words1)
	if err != nil {
		return fmt.Errorf("pairwise-trajectories: --words1: %w", err)
	}
	w2, err := parseIntList(*words2)
	if err != nil {
		return fmt.Errorf("pairwise-trajectories: --words2: %w", err)
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("pairwise-trajectories: cannot read %q: %w", inputPath, err)
	}
	reader, err := embedding.Open(data)
	if err != nil {
		return fmt.Errorf("pairwise-trajectories: %w", err)
	}

	trajectories := reader.PairwiseTrajectories(w1, w2)
	fmt.Println("[")
	for i, traj := range trajectories {
		fmt.Printf("    %v,\n", traj)
		if *showTrend {
			fit, err := trend.FitLine(traj)
			if err != nil {
				fmt.Printf("    # trend unavailable: %v\n", err)
				continue
			}
			fmt.Printf("    # pair %d trend: slope=%.6g intercept=%.6g r2=%.4f\n", i, fit.Slope, fit.Intercept, fit.RSquared)
		}
	}
	fmt.Println("]")
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("inspect: missing input file")
	}
	inputPath := fs.Arg(0)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("inspect: cannot read %q: %w", inputPath, err)
	}
	reader, err := embedding.Open(data)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	fmt.Printf("NumTimesteps:     %d\n", reader.NumTimesteps())
	fmt.Printf("VocabSize:        %d\n", reader.VocabSize())
	fmt.Printf("EmbeddingDim:     %d\n", reader.EmbeddingDim())
	fmt.Printf("JumpInterval:     %d\n", reader.Header.JumpInterval)
	fmt.Printf("ScaleFactor:      %g\n", reader.ScaleFactor())
	fmt.Printf("FileSize (words): %d\n", reader.Header.FileSize)
	fmt.Printf("Fingerprint:      %016x\n", reader.Fingerprint())
	return nil
}

func parseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		out[i] = v
	}
	return out, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: dwe <command> [flags] <args>

Commands:
  create                  build a compressed embedding file from a raw tensor
  decode                  reconstruct the full tensor back to a raw int16 dump
  pairwise-trajectories   print dot-product trajectories for word pairs
  inspect                 print header fields and a content fingerprint

Run 'dwe <command> -h' for flags specific to a command.

Examples:
  dwe create -T 50 -V 20000 -K 100 -s 0.01 -output out.dwe tensor.bin
  dwe decode -output tensor.bin out.dwe
  dwe pairwise-trajectories -words1 12 -words2 47 out.dwe
  dwe inspect out.dwe

`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "dwe: "+format+"\n", args...)
	os.Exit(1)
}
