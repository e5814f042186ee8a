// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClockReplacer(t *testing.T) {
	clockReplacer := NewClockReplacer(7)

	// Scenario: unpin six elements, i.e. add them to the replacer.
	clockReplacer.Unpin(1)
	clockReplacer.Unpin(2)
	clockReplacer.Unpin(3)
	clockReplacer.Unpin(4)
	clockReplacer.Unpin(5)
	clockReplacer.Unpin(6)
	clockReplacer.Unpin(1)
	require.EqualValues(t, 6, clockReplacer.Size())

	// Scenario: get three victims from the clock.
	value := clockReplacer.Victim()
	require.Equal(t, FrameID(1), *value)
	value = clockReplacer.Victim()
	require.Equal(t, FrameID(2), *value)
	value = clockReplacer.Victim()
	require.Equal(t, FrameID(3), *value)

	// Scenario: pin elements in the replacer.
	// Note that 3 has already been victimized, so pinning 3 should have no effect.
	clockReplacer.Pin(3)
	clockReplacer.Pin(4)
	require.EqualValues(t, 2, clockReplacer.Size())

	// Scenario: unpin 4. We expect that the reference bit of 4 will be set to 1.
	clockReplacer.Unpin(4)

	// Scenario: continue looking for victims. We expect these victims.
	value = clockReplacer.Victim()
	require.Equal(t, FrameID(5), *value)
	value = clockReplacer.Victim()
	require.Equal(t, FrameID(6), *value)
	value = clockReplacer.Victim()
	require.Equal(t, FrameID(4), *value)
}

func TestClockReplacerStartsFullyPinned(t *testing.T) {
	r := NewClockReplacer(3)
	require.EqualValues(t, 0, r.Size())
	require.Nil(t, r.Victim())
}

func TestClockReplacerOutOfRangeIdsAreIgnored(t *testing.T) {
	r := NewClockReplacer(2)
	r.Unpin(100)
	r.Pin(100)
	require.EqualValues(t, 0, r.Size())
}
