package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/storozhukBM/points2d"
	"github.com/storozhukBM/points2d/lib/arena"
)

const (
	intElementType   = "int"
	floatElementType = "float"
)

type options struct {
	elementType     string
	arenaLimit      uint
	initialCapacity uint
	logLevel        string
	metrics         bool
}

func (o *options) allocatorOptions() arena.Options {
	return arena.Options{
		InitialCapacity:        o.initialCapacity,
		AllocationLimitInBytes: o.arenaLimit,
	}
}

// session holds the state built by PersistentPreRunE for the executed subcommand.
type session struct {
	options
	log *logrus.Logger
	// alloc is bound to the command context and lives until the command is finished.
	alloc *arena.GenericAllocator
	// lineAlloc serves one input line at a time and is cleared after the line is written.
	lineAlloc *arena.GenericAllocator
}

func (o *options) bind(flags *pflag.FlagSet) {
	flags.StringVar(&o.elementType, "type", intElementType, "element type of points: int or float")
	flags.UintVar(&o.arenaLimit, "arena-limit", 0, "allocation limit of each arena in bytes, 0 means unlimited")
	flags.UintVar(&o.initialCapacity, "initial-capacity", 0, "initial capacity of the arena in bytes")
	flags.StringVar(&o.logLevel, "log-level", logrus.WarnLevel.String(), "log level: debug, info, warn, error")
	flags.BoolVar(&o.metrics, "metrics", false, "log arena metrics after the command")
}

func (o *options) validate() error {
	switch o.elementType {
	case intElementType, floatElementType:
		return nil
	default:
		return fmt.Errorf("unsupported element type %q, expected %q or %q", o.elementType, intElementType, floatElementType)
	}
}

func newRootCommand() *cobra.Command {
	s := &session{log: logrus.New()}

	root := &cobra.Command{
		Use:           "points2d",
		Short:         "Parse, print and add sequences of 2D points",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.validate(); err != nil {
				return err
			}
			level, levelErr := logrus.ParseLevel(s.logLevel)
			if levelErr != nil {
				return levelErr
			}
			s.log.SetOutput(cmd.ErrOrStderr())
			s.log.SetLevel(level)
			points2d.SetLogger(s.log)

			s.alloc = arena.NewGenericAllocator(s.allocatorOptions())
			s.lineAlloc = arena.NewGenericAllocator(s.allocatorOptions())
			cmd.SetContext(arena.WithAllocator(cmd.Context(), s.alloc))
			s.log.WithFields(logrus.Fields{
				"type":            s.elementType,
				"arenaLimit":      s.arenaLimit,
				"initialCapacity": s.initialCapacity,
			}).Debug("allocators are ready")
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if !s.metrics || s.alloc == nil {
				return
			}
			entry := s.log.WithField("command", cmd.Name())
			entry.Infof("arena metrics: %v", s.alloc.EnhancedMetrics())
			entry.Infof("line arena metrics: %v", s.lineAlloc.EnhancedMetrics())
		},
	}
	s.bind(root.PersistentFlags())

	root.AddCommand(
		newSumCommand(s),
		newPrintCommand(s),
		newShiftCommand(s),
	)
	return root
}
