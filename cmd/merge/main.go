package main

import (
	"fmt"
	"log"
	"os"

	"electricity-dataset/internal/config"
	"electricity-dataset/internal/metrics"
	"electricity-dataset/internal/pipeline"
)

func main() {
	cfgPath := config.Resolve()
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfgPath != "" {
		log.Printf("Using config %s", cfgPath)
	}

	rec := metrics.NewRecorder()
	res, err := pipeline.Run(cfg, rec)
	if werr := rec.WriteTextfile(cfg.Metrics.TextfilePath); werr != nil {
		log.Printf("metrics textfile: %v", werr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "merge failed: %v\n", err)
		os.Exit(1)
	}

	rows, cols := res.Table.Shape()
	fmt.Printf("Merged dataset shape: (%d, %d)\n", rows, cols)
	fmt.Printf("Saved merged dataset to %s\n", res.OutputPath())
	for _, extra := range res.Outputs[1:] {
		fmt.Printf("Also saved to %s\n", extra)
	}
}
