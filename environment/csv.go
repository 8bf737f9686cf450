package environment

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
)

// LoadCSV reads an obstacle file and constructs an Environment with the given
// safety margin. The expected format is a header line of the form
//
//	lat0 37.792480, lon0 -122.397450
//
// giving the geodetic home of the local frame, an optional column-name line,
// and then one obstacle per line as
//
//	posX,posY,posZ,halfSizeX,halfSizeY,halfSizeZ
//
// in meters relative to home.
func LoadCSV(path string, margin float64) (*Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening obstacle file")
	}
	defer f.Close()
	env, err := ReadCSV(f, margin)
	if err != nil {
		return nil, errors.Wrapf(err, "obstacle file %s", path)
	}
	return env, nil
}

// ReadCSV parses obstacle data in the format described by LoadCSV.
func ReadCSV(r io.Reader, margin float64) (*Environment, error) {
	buffered := bufio.NewReader(r)
	headerLine, err := buffered.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "reading home header")
	}
	lat, lng, err := parseHomeHeader(headerLine)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var obstacles []Obstacle
	line := 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if line == 2 && !isNumeric(record[0]) {
			// Optional column-name row.
			continue
		}
		values := make([]float64, 6)
		for i, field := range record {
			values[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d field %d", line, i+1)
			}
		}
		obstacles = append(obstacles, Obstacle{
			Center:   r3.Vector{X: values[0], Y: values[1], Z: values[2]},
			HalfSize: r3.Vector{X: values[3], Y: values[4], Z: values[5]},
		})
	}
	if len(obstacles) == 0 {
		return nil, errors.New("obstacle file contains no obstacle rows")
	}

	env, err := New(obstacles, margin)
	if err != nil {
		return nil, err
	}
	env.SetHome(geo.NewPoint(lat, lng), 0)
	return env, nil
}

// parseHomeHeader extracts the home coordinates from a line of the form
// "lat0 37.792480, lon0 -122.397450".
func parseHomeHeader(line string) (float64, float64, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("malformed home header %q", strings.TrimSpace(line))
	}
	lat, err := parseLabeledValue(parts[0], "lat0")
	if err != nil {
		return 0, 0, err
	}
	lng, err := parseLabeledValue(parts[1], "lon0")
	if err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func parseLabeledValue(field, label string) (float64, error) {
	tokens := strings.Fields(strings.TrimSpace(field))
	if len(tokens) != 2 || tokens[0] != label {
		return 0, errors.Errorf("expected %q field, got %q", label, field)
	}
	value, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %s", label)
	}
	return value, nil
}

func isNumeric(field string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	return err == nil
}
