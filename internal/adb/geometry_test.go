package adb

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleDump is a trimmed uiautomator hierarchy containing the unlock button.
const sampleDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node index="0" text="" resource-id="" class="android.widget.FrameLayout" bounds="[0,0][1080,2400]">
    <node index="0" text="Community" resource-id="com.mi.global.bbs:id/title" bounds="[0,80][1080,200]"/>
    <node index="1" text="Apply for unlocking" resource-id="com.mi.global.bbs:id/btnApply" bounds="[140,1800][940,1960]"/>
  </node>
</hierarchy>`

// TestFindTapPoint_ByText resolves the element center from its text label.
func TestFindTapPoint_ByText(t *testing.T) {
	t.Parallel()

	point, err := FindTapPoint([]byte(sampleDump), "Apply for unlocking", "")
	require.NoError(t, err)
	require.Equal(t, image.Point{X: 540, Y: 1880}, point)
}

// TestFindTapPoint_FallsBackToResourceID matches by resource-id when the
// text label is absent.
func TestFindTapPoint_FallsBackToResourceID(t *testing.T) {
	t.Parallel()

	point, err := FindTapPoint([]byte(sampleDump), "Some Other Label", "com.mi.global.bbs:id/btnApply")
	require.NoError(t, err)
	require.Equal(t, image.Point{X: 540, Y: 1880}, point)
}

// TestFindTapPoint_NotFound errors when neither selector matches.
func TestFindTapPoint_NotFound(t *testing.T) {
	t.Parallel()

	_, err := FindTapPoint([]byte(sampleDump), "Missing", "missing-id")
	require.ErrorIs(t, err, ErrElementNotFound)
}

// TestFindTapPoint_MalformedBounds errors on an unparsable bounds attribute.
func TestFindTapPoint_MalformedBounds(t *testing.T) {
	t.Parallel()

	dump := `<hierarchy><node text="Apply for unlocking" bounds="oops"/></hierarchy>`

	_, err := FindTapPoint([]byte(dump), "Apply for unlocking", "")
	require.Error(t, err)
}

// TestBoundsCenter parses well-formed bounds and rejects inverted ones.
func TestBoundsCenter(t *testing.T) {
	t.Parallel()

	point, err := boundsCenter("[0,0][100,50]")
	require.NoError(t, err)
	require.Equal(t, image.Point{X: 50, Y: 25}, point)

	_, err = boundsCenter("[100,0][0,50]")
	require.Error(t, err)
}
