package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/storozhukBM/points2d"
	"github.com/storozhukBM/points2d/lib/arena"
)

func main() {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	points2d.SetLogger(log)

	alloc := arena.NewGenericAllocator(arena.Options{AllocationLimitInBytes: 64 * 1024})

	a := points2d.New[int64](alloc)
	if err := a.Parse("3 1 1 2 2 3 3"); err != nil {
		log.WithError(err).Fatal("can't parse first sequence")
	}
	b := points2d.New[int64](alloc)
	// count says 2 points, but only one coordinate is present: the rest is zero
	if err := b.Parse("2 10"); err != nil {
		log.WithError(err).Fatal("can't parse second sequence")
	}

	_, _ = a.WriteTo(os.Stdout)
	_, _ = b.WriteTo(os.Stdout)
	_, _ = points2d.Add(a, b).WriteTo(os.Stdout)

	c := a.Clone()
	moved := points2d.Move(a)
	log.WithFields(logrus.Fields{
		"clone":   c.Len(),
		"moved":   moved.Len(),
		"source":  a.Len(),
		"metrics": alloc.EnhancedMetrics().String(),
	}).Info("sequences after clone and move")

	alloc.Clear()
	log.WithField("metrics", alloc.Metrics().String()).Info("arena cleared")
}
