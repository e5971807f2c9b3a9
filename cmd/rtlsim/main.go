// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

// Command rtlsim runs small demo designs from the rtllib catalog and
// prints their output traces. It exists to exercise the simulator from
// the command line; real designs are driven from Go tests instead.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avernet/rtlsim"
	"github.com/avernet/rtlsim/rtllib"
)

var (
	cycles uint64
	trace  bool
)

var rootCmd = &cobra.Command{
	Use:   "rtlsim",
	Short: "Run demo designs on the rtlsim kernel",
}

var counterCmd = &cobra.Command{
	Use:   "counter",
	Args:  cobra.NoArgs,
	Short: "Run a free-running 8-bit counter and print its values",
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := demoSim(rtllib.Counter, nil)
		if err != nil {
			return err
		}
		if err := sim.Drive("en", rtlsim.FromUint(1, 1), 0); err != nil {
			return err
		}
		if err := sim.Watch("q", printSignal("q")); err != nil {
			return err
		}
		return sim.Run(cycles * 10)
	},
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Args:  cobra.NoArgs,
	Short: "Push an impulse through a 4-deep register pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := demoSim(rtllib.Pipeline, rtlsim.Params{"width": 8, "depth": 4})
		if err != nil {
			return err
		}
		if err := sim.Drive("in", rtlsim.FromUint(8, 0xa5), 1); err != nil {
			return err
		}
		if err := sim.Drive("in", rtlsim.FromUint(8, 0), 6); err != nil {
			return err
		}
		if err := sim.Watch("out", printSignal("out")); err != nil {
			return err
		}
		return sim.Run(cycles * 10)
	},
}

var shaCmd = &cobra.Command{
	Use:   "sha256",
	Args:  cobra.NoArgs,
	Short: "Hash the padded block for \"abc\" and print the digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := demoSim(rtllib.SHA256, nil)
		if err != nil {
			return err
		}
		block, err := rtlsim.FromHex(512, "61626380"+
			"000000000000000000000000000000000000000000000000000000000000"+
			"0000000000000000000000000000000000000000000000000000"+
			"00000018")
		if err != nil {
			return err
		}
		if err := sim.Drive("block", block, 1); err != nil {
			return err
		}
		if err := sim.Drive("rst", rtlsim.FromUint(1, 1), 1); err != nil {
			return err
		}
		if err := sim.Drive("rst", rtlsim.FromUint(1, 0), 6); err != nil {
			return err
		}
		if err := sim.Run(660); err != nil {
			return err
		}
		digest, err := sim.Peek("digest")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", digest)
		return nil
	},
}

func demoSim(spec *rtlsim.ModuleSpec, params rtlsim.Params) (*rtlsim.Sim, error) {
	d, err := rtlsim.Elaborate(spec, params)
	if err != nil {
		return nil, err
	}
	var opts []rtlsim.Option
	if trace {
		log := logrus.New()
		log.SetLevel(logrus.TraceLevel)
		opts = append(opts, rtlsim.WithLogger(log))
	}
	sim := rtlsim.NewSim(d, opts...)
	if err := sim.Clock("clk", 5); err != nil {
		return nil, err
	}
	return sim, nil
}

func printSignal(name string) rtlsim.WatchFn {
	return func(t uint64, v rtlsim.Value) {
		fmt.Printf("%6d  %s = %s\n", t, name, v)
	}
}

func main() {
	rootCmd.PersistentFlags().Uint64Var(&cycles, "cycles", 32, "number of clock cycles to run")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log every signal commit")
	rootCmd.AddCommand(counterCmd, pipelineCmd, shaCmd)
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
