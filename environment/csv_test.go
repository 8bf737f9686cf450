package environment

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

const sampleObstacleData = `lat0 37.792480, lon0 -122.397450
posX,posY,posZ,halfSizeX,halfSizeY,halfSizeZ
-310.2389,-439.2315,85.5,5,5,85.5
-300.2389,-439.2315,85.5,5,5,85.5
-290.2389,-439.2315,85.5,5,5,85.5
`

func TestReadCSV(t *testing.T) {
	env, err := ReadCSV(strings.NewReader(sampleObstacleData), 5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(env.Obstacles()), test.ShouldEqual, 3)
	test.That(t, env.Margin(), test.ShouldEqual, 5)
	test.That(t, env.Home(), test.ShouldNotBeNil)
	test.That(t, env.Home().Lat(), test.ShouldAlmostEqual, 37.792480)
	test.That(t, env.Home().Lng(), test.ShouldAlmostEqual, -122.397450)

	first := env.Obstacles()[0]
	test.That(t, first.Center.X, test.ShouldAlmostEqual, -310.2389)
	test.That(t, first.HalfSize.Z, test.ShouldAlmostEqual, 85.5)
}

func TestReadCSVWithoutColumnRow(t *testing.T) {
	data := "lat0 10.5, lon0 -20.25\n1,2,3,4,5,6\n"
	env, err := ReadCSV(strings.NewReader(data), 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(env.Obstacles()), test.ShouldEqual, 1)
}

func TestReadCSVMalformed(t *testing.T) {
	for _, data := range []string{
		"",
		"lat0 37.79, lon0 -122.39\n",
		"not a header\n1,2,3,4,5,6\n",
		"lat0 37.79, lon0 -122.39\n1,2,3,4,5\n",
		"lat0 37.79, lon0 -122.39\n1,2,3,4,5,bogus\n",
		// degenerate half size
		"lat0 37.79, lon0 -122.39\n1,2,3,4,0,6\n",
	} {
		_, err := ReadCSV(strings.NewReader(data), 1)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestLocalFromGeo(t *testing.T) {
	env, err := ReadCSV(strings.NewReader(sampleObstacleData), 5)
	test.That(t, err, test.ShouldBeNil)

	at, err := env.LocalFromGeo(37.792480, -122.397450, 30)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, at.X, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, at.Y, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, at.Z, test.ShouldAlmostEqual, 30)

	noHome, err := New(testObstacles(), 1)
	test.That(t, err, test.ShouldBeNil)
	_, err = noHome.LocalFromGeo(37.79, -122.39, 0)
	test.That(t, err, test.ShouldNotBeNil)
}
