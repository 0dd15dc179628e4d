/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package refdb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateLegacyExport(t *testing.T) {
	legacy := export(
		entry("pacman", `{"IN1": {"fields": {"32": {"analog": false, "type": 7, "defvalue": 32, "specific_name": null, "player": 0}}, "legacy_order": 1}, `+
			`"IN0": {"fields": {"2": {"analog": false, "type": 53, "defvalue": 2, "specific_name": null, "player": 0}, `+
			`"1": {"analog": false, "type": 51, "defvalue": 1, "specific_name": "P1 Up", "player": 0}}, "legacy_order": 0}}`),
		entry("paddle", `{"P1": {"255": {"analog": true, "type": "IPT_PADDLE", "defvalue": 128, "specific_name": null, "player": 0}}}`),
	)

	var out bytes.Buffer
	stats, err := Migrate(strings.NewReader(legacy), &out)
	require.NoError(t, err)
	assert.Equal(t, MigrateStats{Machines: 2, WrappedPorts: 1, ConvertedTypes: 3, Reordered: 1}, stats)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, testProvenance, lines[0])

	db := loadString(t, out.String())
	pacman, err := db.Lookup("pacman")
	require.NoError(t, err)
	require.Equal(t, 2, pacman.PortCount())
	assert.Equal(t, "IN0", pacman.Ports[0].Tag)
	assert.Equal(t, "IN1", pacman.Ports[1].Tag)
	// field order survives, masks are not sorted
	assert.Equal(t, uint32(2), pacman.Ports[0].Fields[0].Mask)
	assert.Equal(t, "IPT_JOYSTICK_LEFT", pacman.Ports[0].Fields[0].Type)
	assert.Equal(t, "IPT_JOYSTICK_UP", pacman.Ports[0].Fields[1].Type)
	assert.Equal(t, "IPT_START1", pacman.Ports[1].Fields[0].Type)
	require.NotNil(t, pacman.Ports[0].Fields[1].SpecificName)
	assert.Equal(t, "P1 Up", *pacman.Ports[0].Fields[1].SpecificName)

	paddle, err := db.Lookup("paddle")
	require.NoError(t, err)
	assert.Equal(t, 1, paddle.AnalogFieldCount())
}

func TestMigratePartialLegacyOrderKeepsOrder(t *testing.T) {
	in := export(entry("m", `{"B": {"fields": {"1": {"type": "IPT_COIN1"}}, "legacy_order": 0}, "A": {"fields": {"1": {"type": "IPT_COIN2"}}}}`))
	var out bytes.Buffer
	stats, err := Migrate(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Zero(t, stats.Reordered)

	m, err := loadString(t, out.String()).Lookup("m")
	require.NoError(t, err)
	assert.Equal(t, "B", m.Ports[0].Tag)
}

func TestMigrateIsIdempotent(t *testing.T) {
	var first, second bytes.Buffer
	_, err := Migrate(strings.NewReader(export(entry("pacman", pacmanEntry))), &first)
	require.NoError(t, err)
	stats, err := Migrate(bytes.NewReader(first.Bytes()), &second)
	require.NoError(t, err)
	assert.Equal(t, MigrateStats{Machines: 1, Reordered: 0}, stats)
	assert.Equal(t, first.String(), second.String())
}

func TestMigrateSkipsMalformedMachines(t *testing.T) {
	in := export(
		entry("bad_ordinal", `{"A": {"fields": {"1": {"type": 100000}}}}`),
		entry("pacman", pacmanEntry),
		entry("bad_mask", `{"A": {"fields": {"0": {"type": "IPT_COIN1"}}}}`),
	)
	var out bytes.Buffer
	stats, err := Migrate(strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Machines)
	require.Len(t, stats.Skipped, 2)
	assert.Equal(t, "bad_ordinal", stats.Skipped[0].Machine)
	assert.Contains(t, stats.Skipped[0].Reason, "unknown type ordinal")
	assert.Equal(t, "bad_mask", stats.Skipped[1].Machine)
	assert.Contains(t, stats.Skipped[1].Reason, "mask must not be zero")

	db := loadString(t, out.String())
	assert.Equal(t, 1, db.Len())
	_, err = db.Lookup("pacman")
	require.NoError(t, err)
	_, err = db.Lookup("bad_ordinal")
	var unsupported ErrUnsupportedGame
	require.ErrorAs(t, err, &unsupported)
	assert.Empty(t, unsupported.Reason)
}
