package trajectory

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestWriteProfile(t *testing.T) {
	segments, err := Fit(cornerWaypoints(), 2)
	test.That(t, err, test.ShouldBeNil)
	samples, err := Sample(segments, 0.5)
	test.That(t, err, test.ShouldBeNil)

	var buf bytes.Buffer
	test.That(t, WriteProfile(&buf, samples), test.ShouldBeNil)

	records, err := csv.NewReader(&buf).ReadAll()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(records), test.ShouldEqual, len(samples)+1)
	test.That(t, records[0][0], test.ShouldEqual, "t")
	test.That(t, len(records[0]), test.ShouldEqual, 16)
	test.That(t, records[1][0], test.ShouldEqual, "0")
}

func TestSaveProfile(t *testing.T) {
	segments, err := Fit(cornerWaypoints(), 2)
	test.That(t, err, test.ShouldBeNil)
	samples, err := Sample(segments, 1)
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	out := filepath.Join(dir, "output")
	test.That(t, SaveProfile(out, samples), test.ShouldBeNil)

	data, err := os.ReadFile(filepath.Join(out, "profile.csv"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data), test.ShouldBeGreaterThan, 0)
}
