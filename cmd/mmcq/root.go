package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/llm-d-incubation/mmc-queue-analyzer/pkg/config"
)

// exit status of a run that printed partial results
const exitPartial = 2

// exitError carries a non-zero exit status after output was already written
type exitError struct {
	code   int
	reason string
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d: %s", e.code, e.reason)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mmcq",
		Short: "mmcq analyzes and simulates M/M/c queues",
		Long: `mmcq computes the closed-form steady-state metrics of an M/M/c queue
(Poisson arrivals, exponential service, c identical servers, FIFO) and checks
them against a seeded discrete-event simulation of the same system.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newSimulateCmd(), newSizeCmd())
	return root
}

// system parameters shared by all commands; flags override the config file
type systemFlags struct {
	file        string
	servers     int
	arrivalRate float64
	serviceRate float64
}

func (f *systemFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "YAML configuration file")
	fs.IntVarP(&f.servers, "servers", "c", 0, "number of servers")
	fs.Float64VarP(&f.arrivalRate, "arrival-rate", "l", 0, "arrival rate (lambda)")
	fs.Float64VarP(&f.serviceRate, "service-rate", "m", 0, "service rate per server (mu)")
}

// load reads the config file, if any, and applies the flags that were set
func (f *systemFlags) load(cmd *cobra.Command) (*config.File, error) {
	file := config.DefaultFile()
	if f.file != "" {
		var err error
		if file, err = config.LoadFile(f.file); err != nil {
			return nil, err
		}
	}
	fs := cmd.Flags()
	if fs.Changed("servers") {
		file.System.NumServers = f.servers
	}
	if fs.Changed("arrival-rate") {
		file.System.ArrivalRate = f.arrivalRate
	}
	if fs.Changed("service-rate") {
		file.System.ServiceRate = f.serviceRate
	}
	return file, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}
