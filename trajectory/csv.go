package trajectory

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// WriteProfile writes the motion profile as CSV with one row per sample:
// time, then per-axis position, velocity, acceleration, jerk, and snap.
func WriteProfile(w io.Writer, samples []MotionSample) error {
	writer := csv.NewWriter(w)
	header := []string{
		"t",
		"x", "y", "z",
		"vx", "vy", "vz",
		"ax", "ay", "az",
		"jx", "jy", "jz",
		"sx", "sy", "sz",
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "writing profile header")
	}
	for _, s := range samples {
		record := make([]string, 0, len(header))
		record = append(record, formatFloat(s.T))
		for _, v := range []r3.Vector{s.Position, s.Velocity, s.Acceleration, s.Jerk, s.Snap} {
			record = append(record, formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "writing profile row")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing profile")
}

// SaveProfile writes the motion profile to profile.csv in the given
// directory, creating the directory if needed.
func SaveProfile(dir string, samples []MotionSample) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	path := filepath.Join(dir, "profile.csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	return WriteProfile(f, samples)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
