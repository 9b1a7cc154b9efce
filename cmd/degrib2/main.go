// Command degrib2 decodes the GRIB2 messages of a file and logs a summary of
// each field.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/sdifrance/degrib2"
	"github.com/sdifrance/degrib2/meta"
)

var (
	input = flag.String("input", "", "Path to the input grib file.")
	unit  = flag.String("unit", "grib2", "Output units: grib2, english or metric.")
)

func main() {
	flag.Parse()
	if err := run(context.Background()); err != nil {
		glog.Exitf("got fatal error: %v", err)
	}
}

func run(_ context.Context) error {
	if *input == "" {
		return fmt.Errorf("-input is required")
	}
	sys, ok := meta.ParseUnitSystem(*unit)
	if !ok {
		return fmt.Errorf("unknown unit system %q", *unit)
	}
	gribBytes, err := os.ReadFile(*input)
	if err != nil {
		return err
	}
	fields, err := degrib2.Read(gribBytes, degrib2.WithUnit(sys))
	if err != nil {
		return fmt.Errorf("error decoding grib file contents: %w", err)
	}
	for i, f := range fields {
		logField(i, f)
	}
	return nil
}

func logField(i int, f *degrib2.Field) {
	m := f.Meta
	attr := m.GridAttrib
	glog.Infof("field[%d]: %s %s %s ref=%s valid=%s %dx%d min=%g max=%g missing=%d",
		i, m.Element, m.Unit, m.ShortFstLevel,
		m.PDS2.RefTime.Format("2006-01-02T15:04Z"), m.PDS2.Sect4.ValidTime.Format("2006-01-02T15:04Z"),
		f.Nx, f.Ny, attr.Min, attr.Max, attr.NumMiss)
	if len(f.Report) > 0 {
		glog.Warningf("field[%d]: tolerated: %s", i, f.Report)
	}
}
